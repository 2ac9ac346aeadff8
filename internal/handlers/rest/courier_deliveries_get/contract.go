//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=courier_deliveries_get_test
package courier_deliveries_get

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
	ListCourierDeliveries(ctx context.Context, courierID int64, filter entities.DeliveryFilter) ([]entities.Delivery, error)
}
