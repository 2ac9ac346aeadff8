//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=settlement_reconcile_test
package settlement_reconcile

import (
	"context"

	"dispatch/pkg/logger"
)

type taskLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	ReconcileUnsettled(ctx context.Context, limit uint64) (int, error)
}
