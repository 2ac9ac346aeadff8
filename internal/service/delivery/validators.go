package delivery

import (
	"strings"

	"dispatch/internal/entities"
)

func isValidOrderID(orderID string) bool {
	return strings.TrimSpace(orderID) != ""
}

func validateContact(c entities.Contact) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		return ErrInvalidContact
	}
	if strings.TrimSpace(c.Address.Line) == "" || strings.TrimSpace(c.Address.City) == "" {
		return ErrInvalidAddress
	}
	if c.Address.Lat != nil && (*c.Address.Lat < -90 || *c.Address.Lat > 90) {
		return ErrInvalidCoordinates
	}
	if c.Address.Lng != nil && (*c.Address.Lng < -180 || *c.Address.Lng > 180) {
		return ErrInvalidCoordinates
	}
	return nil
}

func hasReason(reason string) bool {
	return strings.TrimSpace(reason) != ""
}

// forwardSteps maps each courier-reported status to the only status it may
// follow.
var forwardSteps = map[entities.DeliveryStatus]entities.DeliveryStatus{
	entities.DeliveryPickedUp:  entities.DeliveryAccepted,
	entities.DeliveryInTransit: entities.DeliveryPickedUp,
	entities.DeliveryDelivered: entities.DeliveryInTransit,
}

func isKnownStatus(s entities.DeliveryStatus) bool {
	switch s {
	case entities.DeliveryPending,
		entities.DeliveryAssigned,
		entities.DeliveryAccepted,
		entities.DeliveryPickedUp,
		entities.DeliveryInTransit,
		entities.DeliveryDelivered,
		entities.DeliveryCancelled,
		entities.DeliveryFailed:
		return true
	default:
		return false
	}
}
