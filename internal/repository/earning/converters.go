package earning

import (
	"dispatch/internal/entities"
)

func ToDomain(e *CourierEarningDB) *entities.CourierEarning {
	if e == nil {
		return nil
	}

	return &entities.CourierEarning{
		ID:          e.ID,
		CourierID:   e.CourierID,
		DeliveryID:  e.DeliveryID,
		Amount:      e.Amount,
		Status:      entities.EarningStatus(e.Status),
		CreatedAt:   e.CreatedAt,
		CompletedAt: e.CompletedAt,
	}
}

func ToDomainList(earningsDB []CourierEarningDB) []entities.CourierEarning {
	if len(earningsDB) == 0 {
		return []entities.CourierEarning{}
	}

	result := make([]entities.CourierEarning, len(earningsDB))
	for i := range earningsDB {
		result[i] = *ToDomain(&earningsDB[i])
	}
	return result
}

func AccountToDomain(a *CourierAccountDB) *entities.CourierAccount {
	if a == nil {
		return nil
	}

	return &entities.CourierAccount{
		CourierID:           a.CourierID,
		AvailableBalance:    a.AvailableBalance,
		TotalEarnings:       a.TotalEarnings,
		CompletedDeliveries: a.CompletedDeliveries,
		UpdatedAt:           a.UpdatedAt,
	}
}
