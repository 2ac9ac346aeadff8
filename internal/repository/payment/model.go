package payment

import (
	"encoding/json"
	"time"
)

type PaymentEventDB struct {
	ID          int64
	Reference   string
	DeliveryID  *int64
	Channel     string
	EventType   string
	Amount      int64
	Currency    string
	Payload     json.RawMessage
	ReceivedAt  time.Time
	ProcessedAt *time.Time
	Outcome     *string
}
