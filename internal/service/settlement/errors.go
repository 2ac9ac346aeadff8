package settlement

import "dispatch/internal/pkg/apperr"

var (
	ErrMalformedEvent   = apperr.Validation("malformed payment event")
	ErrInvalidReference = apperr.Validation("invalid payment reference")
	ErrInvalidEmail     = apperr.Validation("invalid payer email")

	ErrInvalidSignature = apperr.Unauthorized("invalid webhook signature")

	ErrDeliveryAlreadyPaid = apperr.Conflict("delivery already paid")

	ErrPaymentNotConfirmed = apperr.DomainState("payment not confirmed by gateway")
	ErrDeliveryNotPayable  = apperr.DomainState("delivery can no longer be paid")

	// ErrPaymentPending means the gateway could not be asked. The caller may
	// retry the same request.
	ErrPaymentPending = apperr.Upstream("payment status unknown, gateway unavailable")
)
