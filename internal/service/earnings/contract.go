//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=earnings_test
package earnings

import (
	"context"
	"time"

	"dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

type DeliveryReader interface {
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
}

type Repository interface {
	// InsertEarning records the courier's share of a delivery. inserted is
	// false when the delivery already has an earning.
	InsertEarning(ctx context.Context, earning entities.CourierEarning) (stored *entities.CourierEarning, inserted bool, err error)
	IncrementAccount(ctx context.Context, courierID int64, amount decimal.Decimal, at time.Time) error
	GetAccount(ctx context.Context, courierID int64) (*entities.CourierAccount, error)
	ListEarnings(ctx context.Context, courierID int64, limit, offset uint64) ([]entities.CourierEarning, error)
	ListUnsettledDeliveryIDs(ctx context.Context, limit uint64) ([]int64, error)
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
