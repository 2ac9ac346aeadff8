package dto

import (
	"time"

	"dispatch/internal/entities"
)

type Earning struct {
	ID          int64      `json:"id"`
	DeliveryID  int64      `json:"delivery_id"`
	Amount      string     `json:"amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CourierAccount struct {
	CourierID           int64      `json:"courier_id"`
	AvailableBalance    string     `json:"available_balance"`
	TotalEarnings       string     `json:"total_earnings"`
	CompletedDeliveries int64      `json:"completed_deliveries"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
	Earnings            []Earning  `json:"earnings"`
}

func FromEarning(e *entities.CourierEarning) Earning {
	return Earning{
		ID:          e.ID,
		DeliveryID:  e.DeliveryID,
		Amount:      e.Amount.StringFixed(2),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		CompletedAt: e.CompletedAt,
	}
}

func FromCourierAccount(a *entities.CourierAccount, earnings []entities.CourierEarning) CourierAccount {
	result := CourierAccount{
		CourierID:           a.CourierID,
		AvailableBalance:    a.AvailableBalance.StringFixed(2),
		TotalEarnings:       a.TotalEarnings.StringFixed(2),
		CompletedDeliveries: a.CompletedDeliveries,
		UpdatedAt:           a.UpdatedAt,
		Earnings:            make([]Earning, len(earnings)),
	}
	for i := range earnings {
		result.Earnings[i] = FromEarning(&earnings[i])
	}
	return result
}
