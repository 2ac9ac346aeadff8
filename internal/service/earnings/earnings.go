package earnings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Earnings struct {
	deliveries DeliveryReader
	repository Repository
	notifier   Notifier
	txManager  TxManager
}

func New(deliveries DeliveryReader, repository Repository, notifier Notifier, txManager TxManager) *Earnings {
	return &Earnings{
		deliveries: deliveries,
		repository: repository,
		notifier:   notifier,
		txManager:  txManager,
	}
}

// SettleDelivery credits the courier's share of a delivered, paid delivery.
// It joins the caller's transaction when there is one, so the caller owns the
// COURIER_CREDITED notification. A delivery is credited at most once; credited
// reports whether this call did it.
func (e *Earnings) SettleDelivery(ctx context.Context, deliveryID int64) (*entities.CourierEarning, bool, error) {
	var (
		earning  *entities.CourierEarning
		credited bool
	)
	err := e.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := e.deliveries.GetByID(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if !delivery.ReadyForSettlement() {
			return fmt.Errorf("%w: delivery %d is %s with payment %s",
				ErrSettlementNotReady, delivery.ID, delivery.Status, delivery.PaymentStatus)
		}

		now := time.Now().UTC()
		earning, credited, err = e.repository.InsertEarning(ctx, entities.CourierEarning{
			CourierID:   *delivery.CourierID,
			DeliveryID:  delivery.ID,
			Amount:      delivery.CourierFee,
			Status:      entities.EarningPending,
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("insert earning: %w", err)
		}
		if !credited {
			return nil
		}

		if err := e.repository.IncrementAccount(ctx, earning.CourierID, earning.Amount, now); err != nil {
			return fmt.Errorf("increment courier account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return earning, credited, nil
}

func (e *Earnings) GetAccount(ctx context.Context, courierID int64) (*entities.CourierAccount, error) {
	if courierID <= 0 {
		return nil, ErrInvalidCourierID
	}

	account, err := e.repository.GetAccount(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("get courier account: %w", err)
	}
	return account, nil
}

func (e *Earnings) ListEarnings(ctx context.Context, courierID int64, limit, offset uint64) ([]entities.CourierEarning, error) {
	if courierID <= 0 {
		return nil, ErrInvalidCourierID
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	earnings, err := e.repository.ListEarnings(ctx, courierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	return earnings, nil
}

// ReconcileUnsettled settles delivered, paid deliveries that still have no
// earning and returns how many were credited. A failure on one delivery does
// not stop the others.
func (e *Earnings) ReconcileUnsettled(ctx context.Context, limit uint64) (int, error) {
	ids, err := e.repository.ListUnsettledDeliveryIDs(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list unsettled deliveries: %w", err)
	}

	var (
		settled int
		errs    []error
	)
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		earning, credited, err := e.SettleDelivery(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("settle delivery %d: %w", id, err))
			continue
		}
		if credited {
			settled++
			e.notifier.Notify(ctx, entities.CourierCredited(earning, time.Now().UTC()))
		}
	}

	return settled, errors.Join(errs...)
}
