package order_events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/pkg/apperr"
	"dispatch/pkg/logger"
	retrierconfig "dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"

	"github.com/IBM/sarama"
)

const (
	initialInterval = 200 * time.Millisecond
	maxInterval     = 2 * time.Second
	randomization   = 0.3
	multiplier      = 2.0
)

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type Handler struct {
	orderService             Service
	log                      handlerLogger
	retrier                  retrier
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, orderService Service, timeout time.Duration) *Handler {
	return &Handler{
		orderService: orderService,
		log:          log.With(logger.NewField("handler", "order_events")),
		retrier: backoff_adapter.New(retrierconfig.Config{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval,
			MaxElapsedTime:  timeout,
			Randomization:   randomization,
			Multiplier:      multiplier,
			ShouldRetry:     isTransient,
		}),
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("order events: claim closed, exiting")
				return nil
			}

			if shouldExit := h.messageProcessing(sess, message); shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			h.log.Info("order events: session done, exiting")
			return nil
		}
	}
}

// messageProcessing handles one message. It returns true when the claim must
// stop; the message is then left unmarked and is redelivered after rebalance.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var raw orderEvent
	if err := json.Unmarshal(message.Value, &raw); err != nil {
		h.log.Error("order events: bad message",
			logger.ErrorField(err),
			logger.NewField("offset", message.Offset),
			logger.NewField("partition", message.Partition),
		)
		sess.MarkMessage(message, "")
		return false
	}
	event := raw.toEntity()

	msgLog := h.log.With(
		logger.NewField("order", event.OrderID),
		logger.NewField("event", event.Type.String()),
		logger.NewField("offset", message.Offset),
	)
	msgLog.Info("order events: processing")

	err := h.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return h.orderService.ProcessOrderEvent(ctx, event)
	})
	if err != nil {
		switch {
		case sess.Context().Err() != nil:
			msgLog.Warn("order events: session cancelled, message will be reprocessed", logger.ErrorField(err))
			return true

		case isTransient(err):
			msgLog.Error("order events: giving up on message", logger.ErrorField(err))

		default:
			msgLog.Warn("order events: message rejected", logger.ErrorField(err))
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("order events: processed")
	sess.MarkMessage(message, "")
	return false
}

// isTransient reports errors worth retrying: anything that is not a domain
// verdict on the event itself.
func isTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrDomainState):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}
