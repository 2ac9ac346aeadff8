package order

import "dispatch/internal/pkg/apperr"

var (
	ErrUndefinedEventType     = apperr.Validation("undefined order event type")
	ErrInvalidOrderEvent      = apperr.Validation("order event without order id")
	ErrMissingDeliveryDetails = apperr.Validation("paid order event without delivery details")
)
