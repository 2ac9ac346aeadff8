package earning

import (
	"time"

	"github.com/shopspring/decimal"
)

type CourierEarningDB struct {
	ID          int64
	CourierID   int64
	DeliveryID  int64
	Amount      decimal.Decimal
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type CourierAccountDB struct {
	CourierID           int64
	AvailableBalance    decimal.Decimal
	TotalEarnings       decimal.Decimal
	CompletedDeliveries int64
	UpdatedAt           *time.Time
}
