package earnings

import "dispatch/internal/pkg/apperr"

var (
	ErrInvalidCourierID = apperr.Validation("invalid courier id")

	ErrCourierNotFound = apperr.NotFound("courier not found")

	// ErrSettlementNotReady means the delivery is not yet delivered, paid and
	// assigned all at once.
	ErrSettlementNotReady = apperr.DomainState("delivery is not ready for settlement")
)
