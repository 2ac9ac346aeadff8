package order_handle

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/pkg/apperr"
	"dispatch/internal/service/delivery"
	"dispatch/internal/service/order"
)

type EventHandlerFactory struct {
	deliveryService order.DeliveryService
}

func NewEventHandlerFactory(deliveryService order.DeliveryService) *EventHandlerFactory {
	return &EventHandlerFactory{
		deliveryService: deliveryService,
	}
}

func (f *EventHandlerFactory) GetHandler(eventType entities.OrderEventType) (order.ExecuteFn, error) {
	switch eventType {
	case entities.OrderPaid:
		return f.paidHandler, nil
	case entities.OrderCancelled:
		return f.cancelledHandler, nil
	default:
		return nil, fmt.Errorf("%w: %s", order.ErrUndefinedEventType, eventType)
	}
}

// paidHandler creates the order's delivery. A redelivered event finds the
// delivery already there and succeeds.
func (f *EventHandlerFactory) paidHandler(ctx context.Context, event entities.OrderEvent) error {
	if event.Delivery == nil {
		return order.ErrMissingDeliveryDetails
	}

	req := *event.Delivery
	req.OrderID = event.OrderID

	_, err := f.deliveryService.CreateOrderDelivery(ctx, req)
	if err != nil && !errors.Is(err, delivery.ErrDeliveryExistsForOrder) {
		return fmt.Errorf("create delivery for paid order %s: %w", event.OrderID, err)
	}
	return nil
}

// cancelledHandler cancels the order's delivery if there is one.
func (f *EventHandlerFactory) cancelledHandler(ctx context.Context, event entities.OrderEvent) error {
	reason := ""
	if event.Reason != nil {
		reason = *event.Reason
	}

	_, err := f.deliveryService.CancelOrderDelivery(ctx, event.OrderID, reason)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("cancel delivery for order %s: %w", event.OrderID, err)
	}
	return nil
}
