//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_test
package delivery

import (
	"context"
	"time"

	"dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, deliveryCreate entities.DeliveryCreate) (*entities.Delivery, error)
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	GetByOrderID(ctx context.Context, orderID string) (*entities.Delivery, error)
	ListAvailable(ctx context.Context, filter entities.DeliveryFilter) ([]entities.Delivery, error)
	ListByCourier(ctx context.Context, courierID int64, filter entities.DeliveryFilter) ([]entities.Delivery, error)

	// Transition applies the change only if the row still matches; applied is
	// false when it did not, and the caller re-reads to find out why.
	Transition(ctx context.Context, transition entities.DeliveryTransition) (delivery *entities.Delivery, from entities.DeliveryStatus, applied bool, err error)
	Rate(ctx context.Context, id int64, rating int, review *string, at time.Time) (*entities.Delivery, bool, error)

	AppendHistory(ctx context.Context, entry entities.StatusHistoryEntry) error
	GetHistory(ctx context.Context, deliveryID int64) ([]entities.StatusHistoryEntry, error)
}

type Pricing interface {
	ComputeFee(distanceKm *float64, priority entities.Priority) (total, courierShare, platformShare decimal.Decimal, err error)
	Split(total decimal.Decimal) (courierShare, platformShare decimal.Decimal)
}

type Earnings interface {
	SettleDelivery(ctx context.Context, deliveryID int64) (*entities.CourierEarning, bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
