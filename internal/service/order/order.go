package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/entities"
)

type Service struct {
	handlerFactory HandlerFactory
}

func New(handlerFactory HandlerFactory) *Service {
	return &Service{
		handlerFactory: handlerFactory,
	}
}

// ProcessOrderEvent reacts to an order lifecycle event. Event types the
// dispatcher does not care about are skipped.
func (s *Service) ProcessOrderEvent(ctx context.Context, event entities.OrderEvent) error {
	if strings.TrimSpace(event.OrderID) == "" {
		return ErrInvalidOrderEvent
	}

	executeFn, err := s.handlerFactory.GetHandler(event.Type)
	if err != nil {
		if errors.Is(err, ErrUndefinedEventType) {
			return nil
		}
		return err
	}

	if err := executeFn(ctx, event); err != nil {
		return fmt.Errorf("handle %s event for order %s: %w", event.Type, event.OrderID, err)
	}
	return nil
}
