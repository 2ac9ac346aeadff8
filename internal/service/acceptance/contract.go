//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=acceptance_test
package acceptance

import (
	"context"
	"time"

	"dispatch/internal/entities"
)

type Repository interface {
	// Accept claims a PENDING, acceptable delivery for the courier in a single
	// conditional write. applied is false when another writer got there first
	// or the delivery is not acceptable.
	Accept(ctx context.Context, acceptance entities.DeliveryAcceptance) (delivery *entities.Delivery, applied bool, err error)
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	AppendHistory(ctx context.Context, entry entities.StatusHistoryEntry) error
}

type CourierRegistry interface {
	GetCourier(ctx context.Context, id int64) (*entities.Courier, error)
}

type ETAFactory interface {
	Estimate(transportType entities.CourierTransportType, baseTime time.Time) (pickup, delivery time.Time)
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
