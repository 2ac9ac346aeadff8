//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"dispatch/internal/gateway/payment"
	"dispatch/internal/handlers/tasks/payment_reconcile"
	"dispatch/internal/handlers/tasks/settlement_reconcile"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/factory/delivery_eta"
	"dispatch/internal/pkg/factory/order_handle"
	acceptanceService "dispatch/internal/service/acceptance"
	courierService "dispatch/internal/service/courier"
	deliveryService "dispatch/internal/service/delivery"
	earningsService "dispatch/internal/service/earnings"
	orderService "dispatch/internal/service/order"
	pricingService "dispatch/internal/service/pricing"
	settlementService "dispatch/internal/service/settlement"

	"dispatch/pkg/logger"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

var repositorySet = wire.NewSet(
	provideTxManager,
	provideQuerier,

	provideCourierRepository,
	provideDeliveryRepository,
	provideEarningRepository,
	providePaymentRepository,
)

var deliverySet = wire.NewSet(
	pricingService.New,
	provideDispatchPolicy,
	provideServiceEarnings,
	provideServiceDelivery,

	wire.Bind(new(deliveryService.Pricing), new(*pricingService.Engine)),
	wire.Bind(new(deliveryService.Earnings), new(*earningsService.Earnings)),
	wire.Bind(new(deliveryService.Notifier), new(Notifier)),
	wire.Bind(new(earningsService.Notifier), new(Notifier)),
)

// InitializeApplication builds the HTTP service (cmd/service).
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	notifier Notifier,
	cache ProcessedCache,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		repositorySet,
		deliverySet,

		provideServiceCourier,
		delivery_eta.New,
		provideServiceAcceptance,
		providePaymentGateway,
		provideServiceSettlement,

		provideSettlementReconcileTask,
		providePaymentReconcileTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceCourier), new(*courierService.Courier)),
		wire.Bind(new(ServiceDelivery), new(*deliveryService.Delivery)),
		wire.Bind(new(ServiceAcceptance), new(*acceptanceService.Acceptance)),
		wire.Bind(new(ServiceEarnings), new(*earningsService.Earnings)),
		wire.Bind(new(ServiceSettlement), new(*settlementService.Settlement)),

		wire.Bind(new(acceptanceService.CourierRegistry), new(*courierService.Courier)),
		wire.Bind(new(acceptanceService.ETAFactory), new(*delivery_eta.DeliveryETAFactory)),
		wire.Bind(new(acceptanceService.Notifier), new(Notifier)),
		wire.Bind(new(settlementService.Gateway), new(*payment.PaymentGateway)),
		wire.Bind(new(settlementService.Earnings), new(*earningsService.Earnings)),
		wire.Bind(new(settlementService.ProcessedCache), new(ProcessedCache)),
		wire.Bind(new(settlementService.Notifier), new(Notifier)),

		wire.Bind(new(settlement_reconcile.Service), new(*earningsService.Earnings)),
		wire.Bind(new(payment_reconcile.Service), new(*settlementService.Settlement)),
	)
	return &Application{}, nil
}

// InitializeKafkaWorkerApp builds the order events consumer
// (cmd/worker-order-events).
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	notifier Notifier,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		repositorySet,
		deliverySet,

		provideEventHandlerFactory,
		orderService.New,

		wire.Bind(new(orderService.DeliveryService), new(*deliveryService.Delivery)),
		wire.Bind(new(orderService.HandlerFactory), new(*order_handle.EventHandlerFactory)),

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}

