package delivery

import (
	"dispatch/internal/entities"
)

var deliveryColumns = []string{
	"id", "order_id", "kind",
	"pickup_name", "pickup_phone", "pickup_address_line", "pickup_city",
	"pickup_state", "pickup_postal_code", "pickup_lat", "pickup_lng",
	"dropoff_name", "dropoff_phone", "dropoff_address_line", "dropoff_city",
	"dropoff_state", "dropoff_postal_code", "dropoff_lat", "dropoff_lng",
	"courier_id", "scheduled_by", "scheduled_by_role",
	"delivery_fee", "courier_fee", "platform_fee", "priority", "distance_km",
	"status", "payment_status", "requires_prepayment", "payment_reference",
	"payment_initialized_at", "paid_at",
	"scheduled_pickup_at", "estimated_pickup_at", "estimated_delivery_at",
	"actual_pickup_at", "actual_delivery_at",
	"notes", "proof_of_delivery", "signature_ref", "cancellation_reason", "failure_reason",
	"rating", "review",
	"created_at", "updated_at",
}

// scanTargets returns the destinations matching deliveryColumns, in order.
func (d *DeliveryDB) scanTargets() []any {
	return []any{
		&d.ID, &d.OrderID, &d.Kind,
		&d.PickupName, &d.PickupPhone, &d.PickupLine, &d.PickupCity,
		&d.PickupState, &d.PickupPostalCode, &d.PickupLat, &d.PickupLng,
		&d.DropoffName, &d.DropoffPhone, &d.DropoffLine, &d.DropoffCity,
		&d.DropoffState, &d.DropoffPostalCode, &d.DropoffLat, &d.DropoffLng,
		&d.CourierID, &d.ScheduledBy, &d.ScheduledByRole,
		&d.DeliveryFee, &d.CourierFee, &d.PlatformFee, &d.Priority, &d.DistanceKm,
		&d.Status, &d.PaymentStatus, &d.RequiresPrepayment, &d.PaymentReference,
		&d.PaymentInitializedAt, &d.PaidAt,
		&d.ScheduledPickupAt, &d.EstimatedPickupAt, &d.EstimatedDeliveryAt,
		&d.ActualPickupAt, &d.ActualDeliveryAt,
		&d.Notes, &d.ProofOfDelivery, &d.SignatureRef, &d.CancellationReason, &d.FailureReason,
		&d.Rating, &d.Review,
		&d.CreatedAt, &d.UpdatedAt,
	}
}

func ToDomain(d *DeliveryDB) *entities.Delivery {
	if d == nil {
		return nil
	}

	delivery := &entities.Delivery{
		ID:      d.ID,
		OrderID: d.OrderID,
		Kind:    entities.DeliveryKind(d.Kind),
		Pickup: entities.Contact{
			Name:  d.PickupName,
			Phone: d.PickupPhone,
			Address: entities.Address{
				Line:       d.PickupLine,
				City:       d.PickupCity,
				State:      d.PickupState,
				PostalCode: d.PickupPostalCode,
				Lat:        d.PickupLat,
				Lng:        d.PickupLng,
			},
		},
		Dropoff: entities.Contact{
			Name:  d.DropoffName,
			Phone: d.DropoffPhone,
			Address: entities.Address{
				Line:       d.DropoffLine,
				City:       d.DropoffCity,
				State:      d.DropoffState,
				PostalCode: d.DropoffPostalCode,
				Lat:        d.DropoffLat,
				Lng:        d.DropoffLng,
			},
		},
		CourierID:            d.CourierID,
		ScheduledBy:          d.ScheduledBy,
		ScheduledByRole:      d.ScheduledByRole,
		DeliveryFee:          d.DeliveryFee,
		CourierFee:           d.CourierFee,
		PlatformFee:          d.PlatformFee,
		Priority:             entities.Priority(d.Priority),
		DistanceKm:           d.DistanceKm,
		Status:               entities.DeliveryStatus(d.Status),
		PaymentStatus:        entities.PaymentStatus(d.PaymentStatus),
		RequiresPrepayment:   d.RequiresPrepayment,
		PaymentReference:     d.PaymentReference,
		PaymentInitializedAt: d.PaymentInitializedAt,
		PaidAt:               d.PaidAt,
		ScheduledPickupAt:    d.ScheduledPickupAt,
		EstimatedPickupAt:    d.EstimatedPickupAt,
		EstimatedDeliveryAt:  d.EstimatedDeliveryAt,
		ActualPickupAt:       d.ActualPickupAt,
		ActualDeliveryAt:     d.ActualDeliveryAt,
		Notes:                d.Notes,
		ProofOfDelivery:      d.ProofOfDelivery,
		SignatureRef:         d.SignatureRef,
		CancellationReason:   d.CancellationReason,
		FailureReason:        d.FailureReason,
		Review:               d.Review,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	if d.Rating != nil {
		rating := int(*d.Rating)
		delivery.Rating = &rating
	}

	return delivery
}

func ToDomainList(deliveriesDB []DeliveryDB) []entities.Delivery {
	if len(deliveriesDB) == 0 {
		return []entities.Delivery{}
	}

	result := make([]entities.Delivery, len(deliveriesDB))
	for i := range deliveriesDB {
		result[i] = *ToDomain(&deliveriesDB[i])
	}
	return result
}

func HistoryToDomain(h *StatusHistoryDB) entities.StatusHistoryEntry {
	entry := entities.StatusHistoryEntry{
		ID:         h.ID,
		DeliveryID: h.DeliveryID,
		ToStatus:   entities.DeliveryStatus(h.ToStatus),
		ActorID:    h.ActorID,
		Note:       h.Note,
		Reason:     h.Reason,
		Lat:        h.Lat,
		Lng:        h.Lng,
		CreatedAt:  h.CreatedAt,
	}
	if h.FromStatus != nil {
		from := entities.DeliveryStatus(*h.FromStatus)
		entry.FromStatus = &from
	}
	return entry
}

func statusStrings(statuses []entities.DeliveryStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = s.String()
	}
	return result
}
