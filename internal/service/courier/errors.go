package courier

import "dispatch/internal/pkg/apperr"

var (
	ErrMissingRequiredFields = apperr.Validation("missing required fields")
	ErrInvalidCourierID      = apperr.Validation("invalid courier id")
	ErrInvalidName           = apperr.Validation("invalid name")
	ErrInvalidStatus         = apperr.Validation("invalid status")
	ErrInvalidPhone          = apperr.Validation("invalid phone")
	ErrInvalidTransport      = apperr.Validation("invalid transport type")
	ErrInvalidPayoutAccount  = apperr.Validation("invalid payout account")

	ErrCourierNotFound = apperr.NotFound("courier not found")
	ErrConflict        = apperr.Conflict("courier with this phone already exists")
)
