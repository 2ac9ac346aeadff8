package dto

import "dispatch/internal/entities"

type PaymentInitializeRequest struct {
	Email string `json:"email"`
}

type PaymentInitializeResponse struct {
	DeliveryID       int64  `json:"delivery_id"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	AmountMinor      int64  `json:"amount_minor"`
}

type SettlementResult struct {
	Reference  string   `json:"reference"`
	DeliveryID *int64   `json:"delivery_id,omitempty"`
	Outcome    string   `json:"outcome"`
	Replayed   bool     `json:"replayed"`
	Earning    *Earning `json:"earning,omitempty"`
}

func FromPaymentInit(p *entities.PaymentInit) PaymentInitializeResponse {
	return PaymentInitializeResponse{
		DeliveryID:       p.DeliveryID,
		Reference:        p.Reference,
		AuthorizationURL: p.AuthorizationURL,
		AccessCode:       p.AccessCode,
		AmountMinor:      p.AmountMinor,
	}
}

func FromSettlementResult(r *entities.SettlementResult) SettlementResult {
	result := SettlementResult{
		Reference:  r.Reference,
		DeliveryID: r.DeliveryID,
		Outcome:    r.Outcome.String(),
		Replayed:   r.Replayed,
	}
	if r.Earning != nil {
		earning := FromEarning(r.Earning)
		result.Earning = &earning
	}
	return result
}
