package payment

import (
	"encoding/json"
	"time"
)

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email     string          `json:"email"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency,omitempty"`
	Reference string          `json:"reference"`
	Metadata  json.RawMessage `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type chargeData struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    *time.Time      `json:"paid_at"`
	Metadata  json.RawMessage `json:"metadata"`
}

type webhookEvent struct {
	Event string     `json:"event"`
	Data  chargeData `json:"data"`
}
