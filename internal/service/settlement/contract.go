//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=settlement_test
package settlement

import (
	"context"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type DeliveryRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	// MarkPaid completes the payment only if it is still PENDING.
	MarkPaid(ctx context.Context, deliveryID int64, reference string, paidAt time.Time) (delivery *entities.Delivery, applied bool, err error)
	// SetPaymentReference stores a new reference only while the payment is PENDING.
	SetPaymentReference(ctx context.Context, deliveryID int64, reference string, at time.Time) (applied bool, err error)
	ListStalePayments(ctx context.Context, initializedBefore time.Time, limit uint64) ([]entities.Delivery, error)
}

type EventRepository interface {
	// InsertEvent records the first sighting of a reference. When the
	// reference is already known it returns the stored event and inserted is
	// false.
	InsertEvent(ctx context.Context, event entities.PaymentEventCreate) (stored *entities.PaymentEvent, inserted bool, err error)
	MarkProcessed(ctx context.Context, reference string, deliveryID *int64, outcome entities.PaymentOutcome, at time.Time) error
}

type Gateway interface {
	Initialize(ctx context.Context, req entities.PaymentInitRequest) (*entities.PaymentInit, error)
	Verify(ctx context.Context, reference string) (*entities.GatewayCharge, error)
	VerifySignature(payload []byte, signature string) bool
	DecodeEvent(payload []byte) (*entities.GatewayCharge, error)
}

type Earnings interface {
	SettleDelivery(ctx context.Context, deliveryID int64) (*entities.CourierEarning, bool, error)
}

type ProcessedCache interface {
	Get(ctx context.Context, reference string) (*entities.SettlementResult, bool, error)
	MarkProcessed(ctx context.Context, result entities.SettlementResult) error
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type settlementLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
