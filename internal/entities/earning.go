package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type EarningStatus string

const (
	// EarningPending is credited to the available balance but not paid out.
	EarningPending EarningStatus = "PENDING"
	// EarningCompleted is paid out to the courier.
	EarningCompleted EarningStatus = "COMPLETED"
)

type CourierEarning struct {
	ID          int64
	CourierID   int64
	DeliveryID  int64
	Amount      decimal.Decimal
	Status      EarningStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type CourierAccount struct {
	CourierID           int64
	AvailableBalance    decimal.Decimal
	TotalEarnings       decimal.Decimal
	CompletedDeliveries int64
	UpdatedAt           *time.Time
}
