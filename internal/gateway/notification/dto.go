package notification

import (
	"time"

	"dispatch/internal/entities"
)

type message struct {
	Type       string    `json:"type"`
	DeliveryID int64     `json:"delivery_id"`
	OrderID    *string   `json:"order_id,omitempty"`
	CourierID  *int64    `json:"courier_id,omitempty"`
	Status     *string   `json:"status,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMessage(n entities.Notification) message {
	m := message{
		Type:       string(n.Type),
		DeliveryID: n.DeliveryID,
		OrderID:    n.OrderID,
		CourierID:  n.CourierID,
		Message:    n.Message,
		CreatedAt:  n.CreatedAt.UTC(),
	}
	if n.Status != nil {
		status := n.Status.String()
		m.Status = &status
	}
	return m
}
