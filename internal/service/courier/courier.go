package courier

import (
	"context"
	"fmt"

	"dispatch/internal/entities"
)

type Courier struct {
	repository Repository
}

func New(repository Repository) *Courier {
	return &Courier{
		repository: repository,
	}
}

func (s *Courier) CreateCourier(ctx context.Context, courierModify entities.CourierModify) (int64, error) {
	if courierModify.Name == nil || courierModify.Phone == nil {
		return 0, ErrMissingRequiredFields
	}
	if courierModify.Status == nil {
		status := entities.DefaultStatusType
		courierModify.Status = &status
	}
	if courierModify.TransportType == nil {
		transport := entities.DefaultTransportType
		courierModify.TransportType = &transport
	}

	if err := validate(courierModify); err != nil {
		return 0, err
	}

	id, err := s.repository.Create(ctx, courierModify)
	if err != nil {
		return 0, fmt.Errorf("create courier: %w", err)
	}

	return id, nil
}

func (s *Courier) UpdateCourier(ctx context.Context, courierModify entities.CourierModify) (*entities.Courier, error) {
	if courierModify.ID == nil || *courierModify.ID <= 0 {
		return nil, ErrInvalidCourierID
	}
	if courierModify.Name == nil &&
		courierModify.Phone == nil &&
		courierModify.Status == nil &&
		courierModify.TransportType == nil &&
		courierModify.PayoutAccount == nil {
		return nil, fmt.Errorf("no fields to update: %w", ErrMissingRequiredFields)
	}

	if err := validate(courierModify); err != nil {
		return nil, err
	}

	courier, err := s.repository.Update(ctx, courierModify)
	if err != nil {
		return nil, fmt.Errorf("update courier: %w", err)
	}
	return courier, nil
}

func (s *Courier) GetCourier(ctx context.Context, id int64) (*entities.Courier, error) {
	if id <= 0 {
		return nil, ErrInvalidCourierID
	}

	courier, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get courier: %w", err)
	}

	return courier, nil
}

func (s *Courier) GetCouriers(ctx context.Context) ([]entities.Courier, error) {
	couriers, err := s.repository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get couriers: %w", err)
	}

	return couriers, nil
}

// validate checks every field that is set; absent fields are left to the caller.
func validate(courierModify entities.CourierModify) error {
	if courierModify.Name != nil && !isValidName(*courierModify.Name) {
		return ErrInvalidName
	}
	if courierModify.Phone != nil && !isValidPhone(*courierModify.Phone) {
		return ErrInvalidPhone
	}
	if courierModify.Status != nil && !courierModify.Status.IsValid() {
		return ErrInvalidStatus
	}
	if courierModify.TransportType != nil && !courierModify.TransportType.IsValid() {
		return ErrInvalidTransport
	}
	if courierModify.PayoutAccount != nil && !isValidPayoutAccount(*courierModify.PayoutAccount) {
		return ErrInvalidPayoutAccount
	}
	return nil
}
