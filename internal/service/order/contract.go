//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"

	"dispatch/internal/entities"
)

type DeliveryService interface {
	CreateOrderDelivery(ctx context.Context, req entities.OrderDeliveryRequest) (*entities.Delivery, error)
	CancelOrderDelivery(ctx context.Context, orderID, reason string) (*entities.Delivery, error)
}

type (
	ExecuteFn      func(ctx context.Context, event entities.OrderEvent) error
	HandlerFactory interface {
		GetHandler(eventType entities.OrderEventType) (ExecuteFn, error)
	}
)
