package dto

import "dispatch/internal/entities"

type CourierCreate struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Status        string  `json:"status"`
	TransportType string  `json:"transport_type"`
	PayoutAccount *string `json:"payout_account,omitempty"`
}

// ToEntity keeps omitted status and transport nil so the service can apply
// its defaults.
func (c CourierCreate) ToEntity() entities.CourierModify {
	modify := entities.CourierModify{
		Name:          &c.Name,
		Phone:         &c.Phone,
		PayoutAccount: c.PayoutAccount,
	}
	if c.Status != "" {
		status := entities.CourierStatusType(c.Status)
		modify.Status = &status
	}
	if c.TransportType != "" {
		transport := entities.CourierTransportType(c.TransportType)
		modify.TransportType = &transport
	}
	return modify
}

type CourierCreateResponse struct {
	ID int64 `json:"id"`
}

type CourierUpdate struct {
	ID            int64   `json:"id"`
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Status        *string `json:"status,omitempty"`
	TransportType *string `json:"transport_type,omitempty"`
	PayoutAccount *string `json:"payout_account,omitempty"`
}

type Courier struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Status        string  `json:"status"`
	TransportType string  `json:"transport_type"`
	PayoutAccount *string `json:"payout_account,omitempty"`
}

func FromCourier(c *entities.Courier) Courier {
	return Courier{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Status:        c.Status.String(),
		TransportType: c.TransportType.String(),
		PayoutAccount: c.PayoutAccount,
	}
}

func FromCouriers(couriers []entities.Courier) []Courier {
	result := make([]Courier, len(couriers))
	for i := range couriers {
		result[i] = FromCourier(&couriers[i])
	}
	return result
}
