package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	orderServiceActor = "order-service"
	roleBuyer         = "buyer"
)

// Policy is the dispatch configuration that is fixed per delivery at creation.
type Policy struct {
	PrepaymentOrder      bool
	PrepaymentStandalone bool
	FeeTolerance         decimal.Decimal
}

type Delivery struct {
	repository Repository
	pricing    Pricing
	earnings   Earnings
	notifier   Notifier
	txManager  TxManager
	policy     Policy
}

func New(
	repository Repository,
	pricing Pricing,
	earnings Earnings,
	notifier Notifier,
	txManager TxManager,
	policy Policy,
) *Delivery {
	return &Delivery{
		repository: repository,
		pricing:    pricing,
		earnings:   earnings,
		notifier:   notifier,
		txManager:  txManager,
		policy:     policy,
	}
}

func (d *Delivery) CreateOrderDelivery(ctx context.Context, req entities.OrderDeliveryRequest) (*entities.Delivery, error) {
	if !isValidOrderID(req.OrderID) {
		return nil, ErrInvalidOrderID
	}
	if err := validateContact(req.Seller); err != nil {
		return nil, fmt.Errorf("seller: %w", err)
	}
	if err := validateContact(req.Buyer); err != nil {
		return nil, fmt.Errorf("buyer: %w", err)
	}

	total, courierFee, platformFee, err := d.pricing.ComputeFee(req.DistanceKm, req.Priority)
	if err != nil {
		return nil, fmt.Errorf("compute fee: %w", err)
	}

	if req.QuotedFee != nil {
		if req.QuotedFee.Sub(total).Abs().GreaterThan(d.policy.FeeTolerance) {
			return nil, fmt.Errorf("%w: quoted %s, computed %s", ErrQuotedFeeMismatch, req.QuotedFee.StringFixed(2), total.StringFixed(2))
		}
		total = req.QuotedFee.Round(2)
		courierFee, platformFee = d.pricing.Split(total)
	}

	scheduledBy := strings.TrimSpace(req.BuyerID)
	if scheduledBy == "" {
		scheduledBy = orderServiceActor
	}

	orderID := req.OrderID
	return d.create(ctx, entities.DeliveryCreate{
		OrderID:            &orderID,
		Kind:               entities.DeliveryKindOrder,
		Pickup:             req.Seller,
		Dropoff:            req.Buyer,
		ScheduledBy:        scheduledBy,
		ScheduledByRole:    roleBuyer,
		DeliveryFee:        total,
		CourierFee:         courierFee,
		PlatformFee:        platformFee,
		Priority:           req.Priority,
		DistanceKm:         req.DistanceKm,
		RequiresPrepayment: d.policy.PrepaymentOrder,
		ScheduledPickupAt:  req.ScheduledPickupAt,
		Notes:              req.Notes,
	})
}

func (d *Delivery) CreateStandaloneDelivery(ctx context.Context, req entities.StandaloneDeliveryRequest) (*entities.Delivery, error) {
	if strings.TrimSpace(req.ScheduledBy) == "" || strings.TrimSpace(req.ScheduledByRole) == "" {
		return nil, ErrMissingRequiredFields
	}
	if err := validateContact(req.Pickup); err != nil {
		return nil, fmt.Errorf("pickup: %w", err)
	}
	if err := validateContact(req.Dropoff); err != nil {
		return nil, fmt.Errorf("dropoff: %w", err)
	}

	total, courierFee, platformFee, err := d.pricing.ComputeFee(req.DistanceKm, req.Priority)
	if err != nil {
		return nil, fmt.Errorf("compute fee: %w", err)
	}

	return d.create(ctx, entities.DeliveryCreate{
		Kind:               entities.DeliveryKindStandalone,
		Pickup:             req.Pickup,
		Dropoff:            req.Dropoff,
		ScheduledBy:        req.ScheduledBy,
		ScheduledByRole:    req.ScheduledByRole,
		DeliveryFee:        total,
		CourierFee:         courierFee,
		PlatformFee:        platformFee,
		Priority:           req.Priority,
		DistanceKm:         req.DistanceKm,
		RequiresPrepayment: d.policy.PrepaymentStandalone,
		ScheduledPickupAt:  req.ScheduledPickupAt,
		Notes:              req.Notes,
	})
}

func (d *Delivery) create(ctx context.Context, deliveryCreate entities.DeliveryCreate) (*entities.Delivery, error) {
	deliveryCreate.CreatedAt = time.Now().UTC()

	var created *entities.Delivery
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = d.repository.Create(ctx, deliveryCreate)
		if err != nil {
			return fmt.Errorf("create delivery: %w", err)
		}

		err = d.repository.AppendHistory(ctx, entities.StatusHistoryEntry{
			DeliveryID: created.ID,
			ToStatus:   entities.DeliveryPending,
			ActorID:    deliveryCreate.ScheduledBy,
			CreatedAt:  deliveryCreate.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.notify(ctx, entities.NotificationDeliveryCreated, created, "delivery created")
	return created, nil
}

func (d *Delivery) GetDelivery(ctx context.Context, id int64) (*entities.Delivery, error) {
	delivery, err := d.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return delivery, nil
}

func (d *Delivery) GetHistory(ctx context.Context, id int64) ([]entities.StatusHistoryEntry, error) {
	history, err := d.repository.GetHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery history: %w", err)
	}
	return history, nil
}

// ListAvailableDeliveries returns PENDING deliveries a courier may accept
// right now, that is paid ones and ones that need no prepayment.
func (d *Delivery) ListAvailableDeliveries(ctx context.Context, filter entities.DeliveryFilter) ([]entities.Delivery, error) {
	deliveries, err := d.repository.ListAvailable(ctx, normalizeFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list available deliveries: %w", err)
	}
	return deliveries, nil
}

func (d *Delivery) ListCourierDeliveries(ctx context.Context, courierID int64, filter entities.DeliveryFilter) ([]entities.Delivery, error) {
	deliveries, err := d.repository.ListByCourier(ctx, courierID, normalizeFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list courier deliveries: %w", err)
	}
	return deliveries, nil
}

// UpdateStatus advances a delivery one step on behalf of its courier.
// CANCELLED and FAILED are accepted too, with the note used as the reason.
func (d *Delivery) UpdateStatus(ctx context.Context, update entities.StatusUpdate) (*entities.Delivery, error) {
	switch update.Status {
	case entities.DeliveryCancelled, entities.DeliveryFailed:
		reason := ""
		if update.Note != nil {
			reason = *update.Note
		}
		return d.terminate(ctx, update.DeliveryID, courierActor(update.CourierID), &update.CourierID, update.Status, reason)
	}

	if !isKnownStatus(update.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, update.Status)
	}

	from, ok := forwardSteps[update.Status]
	if !ok {
		current, err := d.repository.GetByID(ctx, update.DeliveryID)
		if err != nil {
			return nil, fmt.Errorf("get delivery: %w", err)
		}
		return nil, &InvalidTransitionError{From: current.Status, To: update.Status}
	}

	now := time.Now().UTC()
	transition := entities.DeliveryTransition{
		DeliveryID: update.DeliveryID,
		From:       []entities.DeliveryStatus{from},
		To:         update.Status,
		CourierID:  &update.CourierID,
		ActorID:    courierActor(update.CourierID),
		Note:       update.Note,
		Lat:        update.Lat,
		Lng:        update.Lng,
		At:         now,
	}
	if update.Status == entities.DeliveryDelivered {
		transition.ProofOfDelivery = update.ProofOfDelivery
		transition.SignatureRef = update.SignatureRef
	}

	var (
		updated *entities.Delivery
		earning *entities.CourierEarning
		changed bool
	)
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, previous, applied, err := d.repository.Transition(ctx, transition)
		if err != nil {
			return fmt.Errorf("transition delivery: %w", err)
		}
		if !applied {
			updated, err = d.classifyCourierMiss(ctx, update)
			return err
		}
		updated, changed = delivery, true

		if err := d.appendHistory(ctx, transition, previous); err != nil {
			return err
		}

		if delivery.Status == entities.DeliveryDelivered && delivery.IsPaid() {
			credited, ok, err := d.earnings.SettleDelivery(ctx, delivery.ID)
			if err != nil {
				return fmt.Errorf("settle delivery: %w", err)
			}
			if ok {
				earning = credited
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		d.notify(ctx, entities.NotificationStatusChanged, updated, "delivery status changed")
	}
	if earning != nil {
		d.notifier.Notify(ctx, entities.CourierCredited(earning, time.Now().UTC()))
	}
	return updated, nil
}

// classifyCourierMiss explains why a courier's conditional update matched no
// row. A repeat of the step that already happened is treated as success.
func (d *Delivery) classifyCourierMiss(ctx context.Context, update entities.StatusUpdate) (*entities.Delivery, error) {
	current, err := d.repository.GetByID(ctx, update.DeliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}

	if current.CourierID == nil || *current.CourierID != update.CourierID {
		return nil, ErrNotAssignedCourier
	}
	if current.Status == update.Status {
		return current, nil
	}
	return nil, &InvalidTransitionError{From: current.Status, To: update.Status}
}

func (d *Delivery) CancelDelivery(ctx context.Context, id int64, actorID, reason string) (*entities.Delivery, error) {
	return d.terminate(ctx, id, actorID, nil, entities.DeliveryCancelled, reason)
}

func (d *Delivery) FailDelivery(ctx context.Context, id int64, actorID, reason string) (*entities.Delivery, error) {
	return d.terminate(ctx, id, actorID, nil, entities.DeliveryFailed, reason)
}

// CancelOrderDelivery cancels the delivery attached to an order. Deliveries
// that already finished are left alone.
func (d *Delivery) CancelOrderDelivery(ctx context.Context, orderID, reason string) (*entities.Delivery, error) {
	if !isValidOrderID(orderID) {
		return nil, ErrInvalidOrderID
	}

	delivery, err := d.repository.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get delivery by order: %w", err)
	}
	if delivery.Status.IsTerminal() {
		return delivery, nil
	}

	if !hasReason(reason) {
		reason = "order cancelled"
	}
	return d.terminate(ctx, delivery.ID, orderServiceActor, nil, entities.DeliveryCancelled, reason)
}

// terminate moves a non-terminal delivery to CANCELLED or FAILED. A non-nil
// courierID limits the update to the delivery that courier holds.
func (d *Delivery) terminate(
	ctx context.Context,
	id int64,
	actorID string,
	courierID *int64,
	to entities.DeliveryStatus,
	reason string,
) (*entities.Delivery, error) {
	if !hasReason(reason) {
		return nil, ErrReasonRequired
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, ErrMissingRequiredFields
	}

	reason = strings.TrimSpace(reason)
	transition := entities.DeliveryTransition{
		DeliveryID: id,
		From:       entities.NonTerminalStatuses(),
		To:         to,
		CourierID:  courierID,
		ActorID:    actorID,
		Reason:     &reason,
		At:         time.Now().UTC(),
	}

	var (
		updated *entities.Delivery
		changed bool
	)
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, previous, applied, err := d.repository.Transition(ctx, transition)
		if err != nil {
			return fmt.Errorf("transition delivery: %w", err)
		}
		if !applied {
			current, err := d.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get delivery: %w", err)
			}
			if courierID != nil && (current.CourierID == nil || *current.CourierID != *courierID) {
				return ErrNotAssignedCourier
			}
			if current.Status != to {
				return &InvalidTransitionError{From: current.Status, To: to}
			}
			updated = current
			return nil
		}
		updated, changed = delivery, true

		return d.appendHistory(ctx, transition, previous)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		d.notify(ctx, entities.NotificationStatusChanged, updated, "delivery "+strings.ToLower(to.String()))
	}
	return updated, nil
}

func (d *Delivery) RateDelivery(ctx context.Context, id int64, rating int, review *string) (*entities.Delivery, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	rated, applied, err := d.repository.Rate(ctx, id, rating, review, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("rate delivery: %w", err)
	}
	if applied {
		return rated, nil
	}

	current, err := d.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if current.Status != entities.DeliveryDelivered {
		return nil, ErrDeliveryNotCompleted
	}
	return nil, ErrAlreadyRated
}

func (d *Delivery) appendHistory(ctx context.Context, transition entities.DeliveryTransition, previous entities.DeliveryStatus) error {
	from := previous
	err := d.repository.AppendHistory(ctx, entities.StatusHistoryEntry{
		DeliveryID: transition.DeliveryID,
		FromStatus: &from,
		ToStatus:   transition.To,
		ActorID:    transition.ActorID,
		Note:       transition.Note,
		Reason:     transition.Reason,
		Lat:        transition.Lat,
		Lng:        transition.Lng,
		CreatedAt:  transition.At,
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (d *Delivery) notify(ctx context.Context, kind entities.NotificationType, delivery *entities.Delivery, message string) {
	status := delivery.Status
	d.notifier.Notify(ctx, entities.Notification{
		Type:       kind,
		DeliveryID: delivery.ID,
		OrderID:    delivery.OrderID,
		CourierID:  delivery.CourierID,
		Status:     &status,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	})
}

func normalizeFilter(filter entities.DeliveryFilter) entities.DeliveryFilter {
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return filter
}

func courierActor(courierID int64) string {
	return fmt.Sprintf("courier:%d", courierID)
}

