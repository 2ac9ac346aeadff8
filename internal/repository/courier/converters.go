package courier

import (
	"dispatch/internal/entities"
)

func ToDomain(c *CourierDB) *entities.Courier {
	if c == nil {
		return nil
	}

	return &entities.Courier{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Status:        entities.CourierStatusType(c.Status),
		TransportType: entities.CourierTransportType(c.TransportType),
		PayoutAccount: c.PayoutAccount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func FromDomainModify(courierModify *entities.CourierModify) *CourierModifyDB {
	if courierModify == nil {
		return nil
	}

	courierDB := &CourierModifyDB{
		ID:            courierModify.ID,
		Name:          courierModify.Name,
		Phone:         courierModify.Phone,
		PayoutAccount: courierModify.PayoutAccount,
	}
	if courierModify.Status != nil {
		statusType := courierModify.Status.String()
		courierDB.Status = &statusType
	}
	if courierModify.TransportType != nil {
		transportType := courierModify.TransportType.String()
		courierDB.TransportType = &transportType
	}

	return courierDB
}

func ToDomainList(couriersDB []CourierDB) []entities.Courier {
	if len(couriersDB) == 0 {
		return []entities.Courier{}
	}

	result := make([]entities.Courier, len(couriersDB))
	for i := range couriersDB {
		result[i] = *ToDomain(&couriersDB[i])
	}
	return result
}
