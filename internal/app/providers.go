package app

import (
	"context"

	"dispatch/internal/gateway/payment"
	"dispatch/internal/handlers/tasks/payment_reconcile"
	"dispatch/internal/handlers/tasks/settlement_reconcile"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/factory/order_handle"
	courierRepo "dispatch/internal/repository/courier"
	deliveryRepo "dispatch/internal/repository/delivery"
	earningRepo "dispatch/internal/repository/earning"
	paymentRepo "dispatch/internal/repository/payment"
	acceptanceService "dispatch/internal/service/acceptance"
	courierService "dispatch/internal/service/courier"
	deliveryService "dispatch/internal/service/delivery"
	earningsService "dispatch/internal/service/earnings"
	orderService "dispatch/internal/service/order"
	settlementService "dispatch/internal/service/settlement"
	"dispatch/pkg/background"
	"dispatch/pkg/logger"
	"dispatch/pkg/querier"
	"dispatch/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideCourierRepository(querier *querier.Querier) *courierRepo.Repository {
	return courierRepo.New(querier)
}

func provideDeliveryRepository(querier *querier.Querier) *deliveryRepo.Repository {
	return deliveryRepo.New(querier)
}

func provideEarningRepository(querier *querier.Querier) *earningRepo.Repository {
	return earningRepo.New(querier)
}

func providePaymentRepository(querier *querier.Querier) *paymentRepo.Repository {
	return paymentRepo.New(querier)
}

func provideServiceCourier(repository *courierRepo.Repository) *courierService.Courier {
	return courierService.New(repository)
}

func provideDispatchPolicy(cfg *config.Config) deliveryService.Policy {
	return deliveryService.Policy{
		PrepaymentOrder:      cfg.Dispatch.PrepaymentOrder,
		PrepaymentStandalone: cfg.Dispatch.PrepaymentStandalone,
		FeeTolerance:         cfg.Dispatch.FeeTolerance,
	}
}

func provideServiceEarnings(
	deliveries *deliveryRepo.Repository,
	repository *earningRepo.Repository,
	notifier earningsService.Notifier,
	txManager *tx.Manager,
) *earningsService.Earnings {
	return earningsService.New(deliveries, repository, notifier, txManager)
}

func provideServiceDelivery(
	repository *deliveryRepo.Repository,
	pricing deliveryService.Pricing,
	earnings deliveryService.Earnings,
	notifier deliveryService.Notifier,
	txManager *tx.Manager,
	policy deliveryService.Policy,
) *deliveryService.Delivery {
	return deliveryService.New(
		repository,
		pricing,
		earnings,
		notifier,
		txManager,
		policy,
	)
}

func provideServiceAcceptance(
	repository *deliveryRepo.Repository,
	couriers acceptanceService.CourierRegistry,
	etaFactory acceptanceService.ETAFactory,
	notifier acceptanceService.Notifier,
	txManager *tx.Manager,
) *acceptanceService.Acceptance {
	return acceptanceService.New(repository, couriers, etaFactory, notifier, txManager)
}

func providePaymentGateway(cfg *config.Config) *payment.PaymentGateway {
	return payment.New(payment.NewHTTPClient(&cfg.PaymentGateway), &cfg.PaymentGateway)
}

func provideServiceSettlement(
	deliveries *deliveryRepo.Repository,
	events *paymentRepo.Repository,
	gateway settlementService.Gateway,
	earnings settlementService.Earnings,
	cache settlementService.ProcessedCache,
	notifier settlementService.Notifier,
	txManager *tx.Manager,
	log logger.Logger,
	cfg *config.Config,
) *settlementService.Settlement {
	return settlementService.New(
		deliveries,
		events,
		gateway,
		earnings,
		cache,
		notifier,
		txManager,
		log,
		cfg.PaymentGateway.Currency,
	)
}

func provideEventHandlerFactory(deliveries orderService.DeliveryService) *order_handle.EventHandlerFactory {
	return order_handle.NewEventHandlerFactory(deliveries)
}

func provideSettlementReconcileTask(
	log logger.Logger,
	service settlement_reconcile.Service,
	cfg *config.Config,
) *settlement_reconcile.SettlementReconcile {
	return settlement_reconcile.NewSettlementReconcile(
		log,
		service,
		cfg.Tasks.SettlementReconcileInterval,
		uint64(cfg.Tasks.SettlementReconcileBatch), //nolint:gosec // validated positive by config
	)
}

func providePaymentReconcileTask(
	log logger.Logger,
	service payment_reconcile.Service,
	cfg *config.Config,
) *payment_reconcile.PaymentReconcile {
	return payment_reconcile.NewPaymentReconcile(
		log,
		service,
		cfg.Tasks.PaymentReconcileInterval,
		cfg.Tasks.PaymentReconcileAge,
		uint64(cfg.Tasks.PaymentReconcileBatch), //nolint:gosec // validated positive by config
	)
}

func provideTaskList(
	settlementReconcileTask *settlement_reconcile.SettlementReconcile,
	paymentReconcileTask *payment_reconcile.PaymentReconcile,
) []background.Task {
	return []background.Task{
		settlementReconcileTask,
		paymentReconcileTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
