package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderPaid      OrderEventType = "paid"
	OrderCancelled OrderEventType = "cancelled"
)

func (t OrderEventType) String() string {
	return string(t)
}

// OrderEvent is an order lifecycle event published by the order service.
type OrderEvent struct {
	OrderID string
	Type    OrderEventType
	// Reason is only set for cancellations.
	Reason *string
	// Delivery is only set for paid orders.
	Delivery *OrderDeliveryRequest
}

// OrderDeliveryRequest asks for a delivery from the seller's origin to the
// buyer's address for a paid order.
type OrderDeliveryRequest struct {
	OrderID           string
	Seller            Contact
	Buyer             Contact
	BuyerID           string
	Priority          Priority
	DistanceKm        *float64
	QuotedFee         *decimal.Decimal
	ScheduledPickupAt *time.Time
	Notes             *string
}

// StandaloneDeliveryRequest is a delivery booked directly, not tied to an order.
type StandaloneDeliveryRequest struct {
	Pickup            Contact
	Dropoff           Contact
	ScheduledBy       string
	ScheduledByRole   string
	Priority          Priority
	DistanceKm        *float64
	ScheduledPickupAt *time.Time
	Notes             *string
}

// StatusUpdate is a courier's report that a delivery advanced one step.
type StatusUpdate struct {
	DeliveryID      int64
	CourierID       int64
	Status          DeliveryStatus
	Note            *string
	Lat             *float64
	Lng             *float64
	ProofOfDelivery []string
	SignatureRef    *string
}
