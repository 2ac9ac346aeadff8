package settlement_reconcile

import (
	"context"
	"time"

	"dispatch/pkg/logger"
)

// SettlementReconcile credits couriers for deliveries that were both paid and
// delivered but missed the inline settlement.
type SettlementReconcile struct {
	log      taskLogger
	service  Service
	interval time.Duration
	batch    uint64
}

func NewSettlementReconcile(log taskLogger, service Service, interval time.Duration, batch uint64) *SettlementReconcile {
	return &SettlementReconcile{
		log:      log,
		service:  service,
		interval: interval,
		batch:    batch,
	}
}

func (s *SettlementReconcile) TTL() time.Duration {
	return s.interval
}

func (s *SettlementReconcile) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	settled, err := s.service.ReconcileUnsettled(ctxWithTimeout, s.batch)

	if settled > 0 {
		s.log.With(
			logger.NewField("settled", settled),
		).Info("settlement reconcile")
	}

	return err
}

func (s *SettlementReconcile) Info() string {
	return "settlement reconcile"
}
