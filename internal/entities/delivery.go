package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Priority string

const (
	PriorityStandard Priority = "STANDARD"
	PriorityExpress  Priority = "EXPRESS"
	PriorityUrgent   Priority = "URGENT"
)

func (p Priority) String() string {
	return string(p)
}

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "PENDING"
	// DeliveryAssigned is reserved for system-assigned couriers. No transition
	// reaches it today.
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryAccepted  DeliveryStatus = "ACCEPTED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsTerminal() bool {
	switch s {
	case DeliveryDelivered, DeliveryCancelled, DeliveryFailed:
		return true
	default:
		return false
	}
}

// NonTerminalStatuses lists every status a cancellation or failure may start from.
func NonTerminalStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		DeliveryPending,
		DeliveryAssigned,
		DeliveryAccepted,
		DeliveryPickedUp,
		DeliveryInTransit,
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

type DeliveryKind string

const (
	DeliveryKindOrder      DeliveryKind = "ORDER"
	DeliveryKindStandalone DeliveryKind = "STANDALONE"
)

type Address struct {
	Line       string
	City       string
	State      string
	PostalCode string
	Lat        *float64
	Lng        *float64
}

type Contact struct {
	Name    string
	Phone   string
	Address Address
}

type Delivery struct {
	ID      int64
	OrderID *string
	Kind    DeliveryKind

	Pickup    Contact
	Dropoff   Contact
	CourierID *int64

	ScheduledBy     string
	ScheduledByRole string

	DeliveryFee decimal.Decimal
	CourierFee  decimal.Decimal
	PlatformFee decimal.Decimal
	Priority    Priority
	DistanceKm  *float64

	Status               DeliveryStatus
	PaymentStatus        PaymentStatus
	RequiresPrepayment   bool
	PaymentReference     *string
	PaymentInitializedAt *time.Time
	PaidAt               *time.Time

	ScheduledPickupAt   *time.Time
	EstimatedPickupAt   *time.Time
	EstimatedDeliveryAt *time.Time
	ActualPickupAt      *time.Time
	ActualDeliveryAt    *time.Time

	Notes              *string
	ProofOfDelivery    []string
	SignatureRef       *string
	CancellationReason *string
	FailureReason      *string

	Rating *int
	Review *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPaid reports whether the delivery fee has been confirmed by the gateway.
func (d *Delivery) IsPaid() bool {
	return d.PaymentStatus == PaymentCompleted
}

// ReadyForSettlement is the conjunction that credits the courier: paid,
// delivered and assigned.
func (d *Delivery) ReadyForSettlement() bool {
	return d.Status == DeliveryDelivered && d.IsPaid() && d.CourierID != nil
}

// DeliveryCreate is everything the ledger needs to insert a new delivery.
type DeliveryCreate struct {
	OrderID            *string
	Kind               DeliveryKind
	Pickup             Contact
	Dropoff            Contact
	ScheduledBy        string
	ScheduledByRole    string
	DeliveryFee        decimal.Decimal
	CourierFee         decimal.Decimal
	PlatformFee        decimal.Decimal
	Priority           Priority
	DistanceKm         *float64
	RequiresPrepayment bool
	ScheduledPickupAt  *time.Time
	Notes              *string
	CreatedAt          time.Time
}

// DeliveryAcceptance is the conditional claim of a PENDING delivery.
type DeliveryAcceptance struct {
	DeliveryID          int64
	CourierID           int64
	EstimatedPickupAt   time.Time
	EstimatedDeliveryAt time.Time
	AcceptedAt          time.Time
}

// DeliveryTransition moves a delivery from one status to the next. The write
// only lands if the row is still in From (and, when CourierID is set, still
// assigned to that courier).
type DeliveryTransition struct {
	DeliveryID      int64
	From            []DeliveryStatus
	To              DeliveryStatus
	CourierID       *int64
	ActorID         string
	Note            *string
	Reason          *string
	Lat             *float64
	Lng             *float64
	ProofOfDelivery []string
	SignatureRef    *string
	At              time.Time
}

type DeliveryFilter struct {
	Priority *Priority
	City     *string
	Limit    uint64
	Offset   uint64
}

type StatusHistoryEntry struct {
	ID         int64
	DeliveryID int64
	FromStatus *DeliveryStatus
	ToStatus   DeliveryStatus
	ActorID    string
	Note       *string
	Reason     *string
	Lat        *float64
	Lng        *float64
	CreatedAt  time.Time
}
