package pricing

import "dispatch/internal/pkg/apperr"

var (
	ErrUnknownPriority  = apperr.Validation("unknown priority")
	ErrNegativeDistance = apperr.Validation("distance must not be negative")
)
