package payment_reconcile

import (
	"context"
	"time"

	"dispatch/pkg/logger"
)

// PaymentReconcile re-verifies initialized payments whose webhook never
// arrived.
type PaymentReconcile struct {
	log      taskLogger
	service  Service
	interval time.Duration
	age      time.Duration
	batch    uint64
}

func NewPaymentReconcile(log taskLogger, service Service, interval, age time.Duration, batch uint64) *PaymentReconcile {
	return &PaymentReconcile{
		log:      log,
		service:  service,
		interval: interval,
		age:      age,
		batch:    batch,
	}
}

func (p *PaymentReconcile) TTL() time.Duration {
	return p.interval
}

func (p *PaymentReconcile) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	resolved, err := p.service.ReconcilePendingPayments(ctxWithTimeout, p.age, p.batch)

	if resolved > 0 {
		p.log.With(
			logger.NewField("resolved", resolved),
		).Info("payment reconcile")
	}

	return err
}

func (p *PaymentReconcile) Info() string {
	return "payment reconcile"
}
