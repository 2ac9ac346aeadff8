package acceptance

import "dispatch/internal/pkg/apperr"

var (
	ErrInvalidDeliveryID = apperr.Validation("invalid delivery id")
	ErrInvalidCourierID  = apperr.Validation("invalid courier id")
	ErrInvalidEstimate   = apperr.Validation("estimated delivery is before estimated pickup")

	ErrDeliveryAlreadyAssigned = apperr.Conflict("delivery already assigned to another courier")

	// ErrDeliveryNotAvailable covers a claim that lost to a cancel or failure.
	ErrDeliveryNotAvailable = apperr.Conflict("delivery is no longer available")

	ErrPayoutAccountRequired = apperr.DomainState("courier has no payout account")
	ErrDeliveryNotPaid       = apperr.DomainState("delivery requires prepayment and is not paid")
)
