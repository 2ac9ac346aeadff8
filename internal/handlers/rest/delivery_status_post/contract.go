//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_status_post_test
package delivery_status_post

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
	UpdateStatus(ctx context.Context, update entities.StatusUpdate) (*entities.Delivery, error)
	CancelDelivery(ctx context.Context, id int64, actorID, reason string) (*entities.Delivery, error)
	FailDelivery(ctx context.Context, id int64, actorID, reason string) (*entities.Delivery, error)
}
