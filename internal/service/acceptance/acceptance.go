package acceptance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/pkg/apperr"
)

type Acceptance struct {
	repository Repository
	couriers   CourierRegistry
	etaFactory ETAFactory
	notifier   Notifier
	txManager  TxManager
	now        func() time.Time
}

func New(
	repository Repository,
	couriers CourierRegistry,
	etaFactory ETAFactory,
	notifier Notifier,
	txManager TxManager,
) *Acceptance {
	return &Acceptance{
		repository: repository,
		couriers:   couriers,
		etaFactory: etaFactory,
		notifier:   notifier,
		txManager:  txManager,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Accept lets a courier claim a PENDING delivery. Of any number of concurrent
// calls for the same delivery exactly one wins; the rest get
// ErrDeliveryAlreadyAssigned. Repeating a successful call returns the
// delivery unchanged.
func (a *Acceptance) Accept(
	ctx context.Context,
	deliveryID, courierID int64,
	estimatedPickup, estimatedDelivery *time.Time,
) (*entities.Delivery, error) {
	if deliveryID <= 0 {
		return nil, ErrInvalidDeliveryID
	}
	if courierID <= 0 {
		return nil, ErrInvalidCourierID
	}

	courier, err := a.couriers.GetCourier(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("get courier: %w", err)
	}
	if !courier.HasPayoutAccount() {
		return nil, ErrPayoutAccountRequired
	}

	now := a.now()
	var pickup, dropoff time.Time
	if estimatedPickup == nil || estimatedDelivery == nil {
		pickup, dropoff = a.etaFactory.Estimate(courier.TransportType, now)
	}
	if estimatedPickup != nil {
		pickup = *estimatedPickup
	}
	if estimatedDelivery != nil {
		dropoff = *estimatedDelivery
	}
	if dropoff.Before(pickup) {
		return nil, ErrInvalidEstimate
	}

	var (
		accepted *entities.Delivery
		outcome  string
	)
	err = a.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, applied, err := a.repository.Accept(ctx, entities.DeliveryAcceptance{
			DeliveryID:          deliveryID,
			CourierID:           courierID,
			EstimatedPickupAt:   pickup,
			EstimatedDeliveryAt: dropoff,
			AcceptedAt:          now,
		})
		if err != nil {
			return fmt.Errorf("accept delivery: %w", err)
		}
		if !applied {
			accepted, outcome, err = a.classifyMiss(ctx, deliveryID, courierID)
			return err
		}

		from := entities.DeliveryPending
		err = a.repository.AppendHistory(ctx, entities.StatusHistoryEntry{
			DeliveryID: deliveryID,
			FromStatus: &from,
			ToStatus:   entities.DeliveryAccepted,
			ActorID:    fmt.Sprintf("courier:%d", courierID),
			CreatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		accepted, outcome = delivery, outcomeAccepted
		return nil
	})
	if err != nil {
		AcceptanceOutcomesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return nil, err
	}
	AcceptanceOutcomesTotal.WithLabelValues(outcome).Inc()

	if outcome == outcomeAccepted {
		status := accepted.Status
		a.notifier.Notify(ctx, entities.Notification{
			Type:       entities.NotificationDeliveryAccepted,
			DeliveryID: accepted.ID,
			OrderID:    accepted.OrderID,
			CourierID:  accepted.CourierID,
			Status:     &status,
			Message:    "delivery accepted by courier",
			CreatedAt:  now,
		})
	}

	return accepted, nil
}

// classifyMiss re-reads a delivery whose conditional claim matched no row.
func (a *Acceptance) classifyMiss(ctx context.Context, deliveryID, courierID int64) (*entities.Delivery, string, error) {
	current, err := a.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, "", fmt.Errorf("get delivery: %w", err)
	}

	switch {
	case current.CourierID != nil && *current.CourierID == courierID && current.Status == entities.DeliveryAccepted:
		return current, outcomeRepeated, nil
	case current.CourierID != nil:
		return nil, "", ErrDeliveryAlreadyAssigned
	case current.Status != entities.DeliveryPending:
		return nil, "", fmt.Errorf("%w: status %s", ErrDeliveryNotAvailable, current.Status)
	case current.RequiresPrepayment && !current.IsPaid():
		return nil, "", ErrDeliveryNotPaid
	default:
		// The row changed back between the claim and the read.
		return nil, "", ErrDeliveryAlreadyAssigned
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrDeliveryAlreadyAssigned):
		return outcomeLostRace
	case errors.Is(err, ErrDeliveryNotPaid):
		return outcomeNotPaid
	case errors.Is(err, ErrDeliveryNotAvailable), errors.Is(err, apperr.ErrNotFound):
		return outcomeUnavailable
	default:
		return outcomeError
	}
}
