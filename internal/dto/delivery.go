package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/entities"
)

type Address struct {
	Line       string   `json:"line"`
	City       string   `json:"city"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type Contact struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type DeliveryCreate struct {
	Pickup            Contact    `json:"pickup"`
	Dropoff           Contact    `json:"dropoff"`
	ScheduledBy       string     `json:"scheduled_by"`
	ScheduledByRole   string     `json:"scheduled_by_role"`
	Priority          string     `json:"priority"`
	DistanceKm        *float64   `json:"distance_km,omitempty"`
	ScheduledPickupAt *time.Time `json:"scheduled_pickup_at,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

type DeliveryAccept struct {
	CourierID           int64      `json:"courier_id"`
	EstimatedPickupAt   *time.Time `json:"estimated_pickup_at,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
}

// DeliveryStatusUpdate moves a delivery forward. Couriers send courier_id;
// an operator cancelling or failing a delivery sends actor_id and reason.
type DeliveryStatusUpdate struct {
	Status          string   `json:"status"`
	CourierID       *int64   `json:"courier_id,omitempty"`
	ActorID         *string  `json:"actor_id,omitempty"`
	Note            *string  `json:"note,omitempty"`
	Reason          *string  `json:"reason,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	ProofOfDelivery []string `json:"proof_of_delivery,omitempty"`
	SignatureRef    *string  `json:"signature_ref,omitempty"`
}

type DeliveryRating struct {
	Rating int     `json:"rating"`
	Review *string `json:"review,omitempty"`
}

type Delivery struct {
	ID        int64   `json:"id"`
	OrderID   *string `json:"order_id,omitempty"`
	Kind      string  `json:"kind"`
	Pickup    Contact `json:"pickup"`
	Dropoff   Contact `json:"dropoff"`
	CourierID *int64  `json:"courier_id,omitempty"`

	ScheduledBy     string `json:"scheduled_by"`
	ScheduledByRole string `json:"scheduled_by_role"`

	DeliveryFee string   `json:"delivery_fee"`
	CourierFee  string   `json:"courier_fee"`
	PlatformFee string   `json:"platform_fee"`
	Priority    string   `json:"priority"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`

	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	RequiresPrepayment bool       `json:"requires_prepayment"`
	PaymentReference   *string    `json:"payment_reference,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`

	ScheduledPickupAt   *time.Time `json:"scheduled_pickup_at,omitempty"`
	EstimatedPickupAt   *time.Time `json:"estimated_pickup_at,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
	ActualPickupAt      *time.Time `json:"actual_pickup_at,omitempty"`
	ActualDeliveryAt    *time.Time `json:"actual_delivery_at,omitempty"`

	Notes              *string  `json:"notes,omitempty"`
	ProofOfDelivery    []string `json:"proof_of_delivery,omitempty"`
	SignatureRef       *string  `json:"signature_ref,omitempty"`
	CancellationReason *string  `json:"cancellation_reason,omitempty"`
	FailureReason      *string  `json:"failure_reason,omitempty"`

	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`

	History []StatusHistoryEntry `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StatusHistoryEntry struct {
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	Note       *string   `json:"note,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c Contact) ToEntity() entities.Contact {
	return entities.Contact{
		Name:  c.Name,
		Phone: c.Phone,
		Address: entities.Address{
			Line:       c.Address.Line,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			Lat:        c.Address.Lat,
			Lng:        c.Address.Lng,
		},
	}
}

func fromContact(c entities.Contact) Contact {
	return Contact{
		Name:  c.Name,
		Phone: c.Phone,
		Address: Address{
			Line:       c.Address.Line,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			Lat:        c.Address.Lat,
			Lng:        c.Address.Lng,
		},
	}
}

func (d DeliveryCreate) ToEntity() entities.StandaloneDeliveryRequest {
	return entities.StandaloneDeliveryRequest{
		Pickup:            d.Pickup.ToEntity(),
		Dropoff:           d.Dropoff.ToEntity(),
		ScheduledBy:       d.ScheduledBy,
		ScheduledByRole:   d.ScheduledByRole,
		Priority:          entities.Priority(strings.ToUpper(strings.TrimSpace(d.Priority))),
		DistanceKm:        d.DistanceKm,
		ScheduledPickupAt: d.ScheduledPickupAt,
		Notes:             d.Notes,
	}
}

func FromDelivery(d *entities.Delivery) Delivery {
	return Delivery{
		ID:                  d.ID,
		OrderID:             d.OrderID,
		Kind:                string(d.Kind),
		Pickup:              fromContact(d.Pickup),
		Dropoff:             fromContact(d.Dropoff),
		CourierID:           d.CourierID,
		ScheduledBy:         d.ScheduledBy,
		ScheduledByRole:     d.ScheduledByRole,
		DeliveryFee:         d.DeliveryFee.StringFixed(2),
		CourierFee:          d.CourierFee.StringFixed(2),
		PlatformFee:         d.PlatformFee.StringFixed(2),
		Priority:            d.Priority.String(),
		DistanceKm:          d.DistanceKm,
		Status:              d.Status.String(),
		PaymentStatus:       d.PaymentStatus.String(),
		RequiresPrepayment:  d.RequiresPrepayment,
		PaymentReference:    d.PaymentReference,
		PaidAt:              d.PaidAt,
		ScheduledPickupAt:   d.ScheduledPickupAt,
		EstimatedPickupAt:   d.EstimatedPickupAt,
		EstimatedDeliveryAt: d.EstimatedDeliveryAt,
		ActualPickupAt:      d.ActualPickupAt,
		ActualDeliveryAt:    d.ActualDeliveryAt,
		Notes:               d.Notes,
		ProofOfDelivery:     d.ProofOfDelivery,
		SignatureRef:        d.SignatureRef,
		CancellationReason:  d.CancellationReason,
		FailureReason:       d.FailureReason,
		Rating:              d.Rating,
		Review:              d.Review,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func FromDeliveries(deliveries []entities.Delivery) []Delivery {
	result := make([]Delivery, len(deliveries))
	for i := range deliveries {
		result[i] = FromDelivery(&deliveries[i])
	}
	return result
}

func FromHistory(history []entities.StatusHistoryEntry) []StatusHistoryEntry {
	result := make([]StatusHistoryEntry, len(history))
	for i, h := range history {
		var from *string
		if h.FromStatus != nil {
			s := h.FromStatus.String()
			from = &s
		}
		result[i] = StatusHistoryEntry{
			FromStatus: from,
			ToStatus:   h.ToStatus.String(),
			ActorID:    h.ActorID,
			Note:       h.Note,
			Reason:     h.Reason,
			Lat:        h.Lat,
			Lng:        h.Lng,
			CreatedAt:  h.CreatedAt,
		}
	}
	return result
}

// DeliveryFilterFromQuery reads priority, city, limit and offset from a
// list request's query string.
func DeliveryFilterFromQuery(q url.Values) (entities.DeliveryFilter, error) {
	var filter entities.DeliveryFilter

	if p := strings.ToUpper(strings.TrimSpace(q.Get("priority"))); p != "" {
		priority := entities.Priority(p)
		filter.Priority = &priority
	}
	if c := strings.TrimSpace(q.Get("city")); c != "" {
		filter.City = &c
	}

	for key, dst := range map[string]*uint64{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return entities.DeliveryFilter{}, fmt.Errorf("invalid %s", key)
		}
		*dst = v
	}

	return filter, nil
}
