package delivery

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryDB struct {
	ID      int64
	OrderID *string
	Kind    string

	PickupName       string
	PickupPhone      string
	PickupLine       string
	PickupCity       string
	PickupState      string
	PickupPostalCode string
	PickupLat        *float64
	PickupLng        *float64

	DropoffName       string
	DropoffPhone      string
	DropoffLine       string
	DropoffCity       string
	DropoffState      string
	DropoffPostalCode string
	DropoffLat        *float64
	DropoffLng        *float64

	CourierID       *int64
	ScheduledBy     string
	ScheduledByRole string

	DeliveryFee decimal.Decimal
	CourierFee  decimal.Decimal
	PlatformFee decimal.Decimal
	Priority    string
	DistanceKm  *float64

	Status               string
	PaymentStatus        string
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

	Rating *int32
	Review *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type StatusHistoryDB struct {
	ID         int64
	DeliveryID int64
	FromStatus *string
	ToStatus   string
	ActorID    string
	Note       *string
	Reason     *string
	Lat        *float64
	Lng        *float64
	CreatedAt  time.Time
}
