//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_initialize_post_test
package payment_initialize_post

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	InitializePayment(ctx context.Context, deliveryID int64, email string) (*entities.PaymentInit, error)
}
