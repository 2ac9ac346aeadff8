//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_rating_post_test
package delivery_rating_post

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
	RateDelivery(ctx context.Context, id int64, rating int, review *string) (*entities.Delivery, error)
}
