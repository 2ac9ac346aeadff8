package delivery

import (
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/pkg/apperr"
)

var (
	ErrMissingRequiredFields = apperr.Validation("missing required fields")
	ErrInvalidOrderID        = apperr.Validation("invalid order id")
	ErrInvalidContact        = apperr.Validation("contact name and phone are required")
	ErrInvalidAddress        = apperr.Validation("address line and city are required")
	ErrInvalidCoordinates    = apperr.Validation("latitude and longitude out of range")
	ErrInvalidStatus         = apperr.Validation("unsupported delivery status")
	ErrReasonRequired        = apperr.Validation("reason is required")
	ErrInvalidRating         = apperr.Validation("rating must be between 1 and 5")
	ErrQuotedFeeMismatch     = apperr.Validation("quoted fee does not match computed fee")

	ErrDeliveryNotFound       = apperr.NotFound("delivery not found")
	ErrDeliveryExistsForOrder = apperr.Conflict("delivery already exists for order")
	ErrAlreadyRated           = apperr.Conflict("delivery already rated")

	ErrNotAssignedCourier   = apperr.DomainState("delivery is not assigned to this courier")
	ErrDeliveryNotCompleted = apperr.DomainState("delivery is not delivered yet")
)

// InvalidTransitionError is returned when a status change does not follow
// the lifecycle from the delivery's current status.
type InvalidTransitionError struct {
	From entities.DeliveryStatus
	To   entities.DeliveryStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move delivery from %s to %s", apperr.ErrDomainState, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == apperr.ErrDomainState
}
