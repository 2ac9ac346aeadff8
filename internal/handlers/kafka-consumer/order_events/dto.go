package order_events

import (
	"strings"
	"time"

	"dispatch/internal/dto"
	"dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

// orderEvent is the wire shape of a message on the order topic.
type orderEvent struct {
	OrderID  string         `json:"order_id"`
	Event    string         `json:"event"`
	Reason   *string        `json:"reason,omitempty"`
	Delivery *orderDelivery `json:"delivery,omitempty"`
}

type orderDelivery struct {
	Seller            dto.Contact      `json:"seller"`
	Buyer             dto.Contact      `json:"buyer"`
	BuyerID           string           `json:"buyer_id"`
	Priority          string           `json:"priority"`
	DistanceKm        *float64         `json:"distance_km,omitempty"`
	QuotedFee         *decimal.Decimal `json:"quoted_fee,omitempty"`
	ScheduledPickupAt *time.Time       `json:"scheduled_pickup_at,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (e orderEvent) toEntity() entities.OrderEvent {
	event := entities.OrderEvent{
		OrderID: strings.TrimSpace(e.OrderID),
		Type:    entities.OrderEventType(strings.ToLower(strings.TrimSpace(e.Event))),
		Reason:  e.Reason,
	}

	if e.Delivery != nil {
		priority := strings.ToUpper(strings.TrimSpace(e.Delivery.Priority))
		if priority == "" {
			priority = entities.PriorityStandard.String()
		}
		event.Delivery = &entities.OrderDeliveryRequest{
			OrderID:           event.OrderID,
			Seller:            e.Delivery.Seller.ToEntity(),
			Buyer:             e.Delivery.Buyer.ToEntity(),
			BuyerID:           e.Delivery.BuyerID,
			Priority:          entities.Priority(priority),
			DistanceKm:        e.Delivery.DistanceKm,
			QuotedFee:         e.Delivery.QuotedFee,
			ScheduledPickupAt: e.Delivery.ScheduledPickupAt,
			Notes:             e.Delivery.Notes,
		}
	}

	return event
}
