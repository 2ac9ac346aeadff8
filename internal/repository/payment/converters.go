package payment

import (
	"encoding/json"

	"dispatch/internal/entities"
)

var emptyPayload = json.RawMessage(`{}`)

func ToDomain(e *PaymentEventDB) *entities.PaymentEvent {
	if e == nil {
		return nil
	}

	event := &entities.PaymentEvent{
		ID:          e.ID,
		Reference:   e.Reference,
		DeliveryID:  e.DeliveryID,
		Channel:     entities.PaymentChannel(e.Channel),
		EventType:   e.EventType,
		AmountMinor: e.Amount,
		Currency:    e.Currency,
		Payload:     e.Payload,
		ReceivedAt:  e.ReceivedAt,
		ProcessedAt: e.ProcessedAt,
	}
	if e.Outcome != nil {
		outcome := entities.PaymentOutcome(*e.Outcome)
		event.Outcome = &outcome
	}
	return event
}

// payloadOrEmpty keeps the NOT NULL jsonb column satisfied for bodies the
// gateway sent without a payload.
func payloadOrEmpty(payload json.RawMessage) json.RawMessage {
	if len(payload) == 0 || !json.Valid(payload) {
		return emptyPayload
	}
	return payload
}
