package app

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/courier_account_get"
	"dispatch/internal/handlers/rest/courier_deliveries_get"
	"dispatch/internal/handlers/rest/courier_get"
	"dispatch/internal/handlers/rest/courier_post"
	"dispatch/internal/handlers/rest/courier_put"
	"dispatch/internal/handlers/rest/couriers_get"
	"dispatch/internal/handlers/rest/deliveries_available_get"
	"dispatch/internal/handlers/rest/delivery_accept_post"
	"dispatch/internal/handlers/rest/delivery_get"
	"dispatch/internal/handlers/rest/delivery_post"
	"dispatch/internal/handlers/rest/delivery_rating_post"
	"dispatch/internal/handlers/rest/delivery_status_post"
	"dispatch/internal/handlers/rest/payment_initialize_post"
	"dispatch/internal/handlers/rest/payment_verify_get"
	"dispatch/internal/handlers/rest/payment_webhook_post"
	orderService "dispatch/internal/service/order"
	settlementService "dispatch/internal/service/settlement"
	"dispatch/pkg/background"
)

type Application struct {
	ServiceCourier    ServiceCourier
	ServiceDelivery   ServiceDelivery
	ServiceAcceptance ServiceAcceptance
	ServiceEarnings   ServiceEarnings
	ServiceSettlement ServiceSettlement
	BackgroundWorkers *background.Worker
}

type KafkaWorkerApp struct {
	OrderService *orderService.Service
}

type ServiceCourier interface {
	courier_get.Service
	courier_post.Service
	courier_put.Service
	couriers_get.Service
}

type ServiceDelivery interface {
	delivery_post.Service
	delivery_get.Service
	deliveries_available_get.Service
	courier_deliveries_get.Service
	delivery_status_post.Service
	delivery_rating_post.Service
}

type ServiceAcceptance interface {
	delivery_accept_post.Service
}

type ServiceEarnings interface {
	courier_account_get.Service
}

type ServiceSettlement interface {
	payment_initialize_post.Service
	payment_verify_get.Service
	payment_webhook_post.Service
}

// Notifier is the notification sink shared by every service: the Kafka
// publisher when a topic is configured, a no-op otherwise.
type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

// ProcessedCache is the Redis processed-reference cache or its no-op.
type ProcessedCache interface {
	settlementService.ProcessedCache
}
