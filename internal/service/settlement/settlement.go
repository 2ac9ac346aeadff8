package settlement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/pkg/apperr"
	"dispatch/pkg/logger"

	"github.com/google/uuid"
)

const referencePrefix = "DLV-"

type Settlement struct {
	deliveries DeliveryRepository
	events     EventRepository
	gateway    Gateway
	earnings   Earnings
	cache      ProcessedCache
	notifier   Notifier
	txManager  TxManager
	log        settlementLogger

	currency     string
	newReference func() string
	now          func() time.Time
}

func New(
	deliveries DeliveryRepository,
	events EventRepository,
	gateway Gateway,
	earnings Earnings,
	cache ProcessedCache,
	notifier Notifier,
	txManager TxManager,
	log settlementLogger,
	currency string,
) *Settlement {
	return &Settlement{
		deliveries:   deliveries,
		events:       events,
		gateway:      gateway,
		earnings:     earnings,
		cache:        cache,
		notifier:     notifier,
		txManager:    txManager,
		log:          log.With(logger.NewField("component", "settlement")),
		currency:     strings.ToUpper(currency),
		newReference: func() string { return referencePrefix + uuid.NewString() },
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// HandleWebhook authenticates and processes a gateway notification. A nil
// error means the event is durably recorded and the gateway may stop
// redelivering it, whatever the outcome.
func (s *Settlement) HandleWebhook(ctx context.Context, payload []byte, signature string) (*entities.SettlementResult, error) {
	if !s.gateway.VerifySignature(payload, signature) {
		return nil, ErrInvalidSignature
	}

	charge, err := s.gateway.DecodeEvent(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	return s.process(ctx, entities.PaymentChannelWebhook, charge)
}

// VerifyPayment asks the gateway about a reference and settles it when the
// charge succeeded.
func (s *Settlement) VerifyPayment(ctx context.Context, reference string) (*entities.SettlementResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrInvalidReference
	}

	if cached, ok := s.cached(ctx, reference); ok && cached.Outcome.IsFinal() {
		SettlementOutcomesTotal.WithLabelValues(string(entities.PaymentChannelVerify), cached.Outcome.String(), "true").Inc()
		return cached, nil
	}

	charge, err := s.verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	return s.process(ctx, entities.PaymentChannelVerify, charge)
}

func (s *Settlement) verify(ctx context.Context, reference string) (*entities.GatewayCharge, error) {
	charge, err := s.gateway.Verify(ctx, reference)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrPaymentNotConfirmed, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrPaymentPending, err)
	}

	if !charge.IsSuccess() {
		return nil, fmt.Errorf("%w: gateway status %q", ErrPaymentNotConfirmed, charge.Status)
	}
	return charge, nil
}

// InitializePayment opens a gateway checkout for the delivery fee under a
// fresh reference.
func (s *Settlement) InitializePayment(ctx context.Context, deliveryID int64, email string) (*entities.PaymentInit, error) {
	email = strings.TrimSpace(email)
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return nil, ErrInvalidEmail
	}

	delivery, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if delivery.IsPaid() {
		return nil, ErrDeliveryAlreadyPaid
	}
	if delivery.Status == entities.DeliveryCancelled || delivery.Status == entities.DeliveryFailed {
		return nil, fmt.Errorf("%w: status %s", ErrDeliveryNotPayable, delivery.Status)
	}

	reference := s.newReference()
	applied, err := s.deliveries.SetPaymentReference(ctx, delivery.ID, reference, s.now())
	if err != nil {
		return nil, fmt.Errorf("set payment reference: %w", err)
	}
	if !applied {
		return nil, ErrDeliveryAlreadyPaid
	}

	amount := entities.ToMinorUnits(delivery.DeliveryFee)
	init, err := s.gateway.Initialize(ctx, entities.PaymentInitRequest{
		Email:       email,
		AmountMinor: amount,
		Reference:   reference,
		Metadata:    entities.NewPaymentMetadata(delivery),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize payment: %w", err)
	}

	init.DeliveryID = delivery.ID
	init.Reference = reference
	init.AmountMinor = amount
	return init, nil
}

// ReconcilePendingPayments re-verifies references that were initialized
// longer than age ago and are still unpaid. It returns how many were applied.
func (s *Settlement) ReconcilePendingPayments(ctx context.Context, age time.Duration, limit uint64) (int, error) {
	stale, err := s.deliveries.ListStalePayments(ctx, s.now().Add(-age), limit)
	if err != nil {
		return 0, fmt.Errorf("list stale payments: %w", err)
	}

	var (
		applied int
		errs    []error
	)
	for _, delivery := range stale {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if delivery.PaymentReference == nil {
			continue
		}

		charge, err := s.verify(ctx, *delivery.PaymentReference)
		if errors.Is(err, ErrPaymentNotConfirmed) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("verify %s: %w", *delivery.PaymentReference, err))
			continue
		}

		result, err := s.process(ctx, entities.PaymentChannelReconcile, charge)
		if err != nil {
			errs = append(errs, fmt.Errorf("process %s: %w", *delivery.PaymentReference, err))
			continue
		}
		if result.Outcome == entities.PaymentApplied && !result.Replayed {
			applied++
		}
	}

	return applied, errors.Join(errs...)
}

// process is the one path every channel goes through. The event insert is
// keyed by reference, so a reference seen twice replays the stored outcome
// instead of touching the delivery again. An IGNORED reference is settled
// again when a successful charge for it shows up.
func (s *Settlement) process(ctx context.Context, channel entities.PaymentChannel, charge *entities.GatewayCharge) (*entities.SettlementResult, error) {
	if strings.TrimSpace(charge.Reference) == "" {
		return nil, fmt.Errorf("%w: missing reference", ErrMalformedEvent)
	}

	if cached, ok := s.cached(ctx, charge.Reference); ok && cached.Outcome.IsFinal() {
		SettlementOutcomesTotal.WithLabelValues(string(channel), cached.Outcome.String(), "true").Inc()
		return cached, nil
	}

	meta, metaErr := entities.DecodePaymentMetadata(charge.Metadata)

	var (
		result *entities.SettlementResult
		paid   *entities.Delivery
	)
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		event, inserted, err := s.events.InsertEvent(ctx, entities.PaymentEventCreate{
			Reference:   charge.Reference,
			Channel:     channel,
			EventType:   charge.Event,
			AmountMinor: charge.AmountMinor,
			Currency:    charge.Currency,
			Payload:     charge.Payload,
			ReceivedAt:  s.now(),
		})
		if err != nil {
			return fmt.Errorf("insert payment event: %w", err)
		}
		if !inserted && event.IsProcessed() && (event.Outcome.IsFinal() || !charge.IsSuccess()) {
			result = &entities.SettlementResult{
				Reference:  event.Reference,
				DeliveryID: event.DeliveryID,
				Outcome:    *event.Outcome,
				Replayed:   true,
			}
			return nil
		}

		result, paid, err = s.settle(ctx, charge, meta, metaErr)
		if err != nil {
			return err
		}

		err = s.events.MarkProcessed(ctx, charge.Reference, result.DeliveryID, result.Outcome, s.now())
		if err != nil {
			return fmt.Errorf("mark payment event processed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	SettlementOutcomesTotal.WithLabelValues(string(channel), result.Outcome.String(), strconv.FormatBool(result.Replayed)).Inc()

	if result.Outcome.IsFinal() {
		if err := s.cache.MarkProcessed(ctx, *result); err != nil {
			s.log.Warn("cache processed reference",
				logger.NewField("reference", result.Reference),
				logger.ErrorField(err),
			)
		}
	}

	if result.Replayed {
		return result, nil
	}

	s.log.Info("payment processed",
		logger.NewField("reference", result.Reference),
		logger.NewField("channel", string(channel)),
		logger.NewField("outcome", result.Outcome.String()),
	)

	if result.Outcome == entities.PaymentApplied {
		status := paid.Status
		s.notifier.Notify(ctx, entities.Notification{
			Type:       entities.NotificationPaymentConfirmed,
			DeliveryID: paid.ID,
			OrderID:    paid.OrderID,
			CourierID:  paid.CourierID,
			Status:     &status,
			Message:    "delivery fee paid",
			CreatedAt:  s.now(),
		})
	}
	if result.Earning != nil {
		s.notifier.Notify(ctx, entities.CourierCredited(result.Earning, s.now()))
	}

	return result, nil
}

// settle decides the outcome of a first-seen reference and applies it to the
// delivery. Anything that is not a valid, sufficient charge for a known
// delivery is recorded rather than returned as an error, so the gateway stops
// redelivering it.
func (s *Settlement) settle(
	ctx context.Context,
	charge *entities.GatewayCharge,
	meta *entities.PaymentMetadata,
	metaErr error,
) (*entities.SettlementResult, *entities.Delivery, error) {
	result := &entities.SettlementResult{Reference: charge.Reference}

	if !charge.IsSuccess() {
		result.Outcome = entities.PaymentIgnored
		return result, nil, nil
	}
	if metaErr != nil {
		s.reject(result, "metadata", metaErr.Error())
		return result, nil, nil
	}

	delivery, err := s.deliveries.GetByID(ctx, meta.DeliveryID)
	if errors.Is(err, apperr.ErrNotFound) {
		s.reject(result, "delivery", strconv.FormatInt(meta.DeliveryID, 10)+" not found")
		return result, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get delivery: %w", err)
	}
	result.DeliveryID = &delivery.ID

	if s.currency != "" && !strings.EqualFold(charge.Currency, s.currency) {
		s.reject(result, "currency", charge.Currency)
		return result, nil, nil
	}
	if entities.FromMinorUnits(charge.AmountMinor).LessThan(delivery.DeliveryFee) {
		s.reject(result, "amount", entities.FromMinorUnits(charge.AmountMinor).StringFixed(2)+" below fee "+delivery.DeliveryFee.StringFixed(2))
		return result, nil, nil
	}

	paidAt := s.now()
	if charge.PaidAt != nil {
		paidAt = charge.PaidAt.UTC()
	}

	paid, applied, err := s.deliveries.MarkPaid(ctx, delivery.ID, charge.Reference, paidAt)
	if err != nil {
		return nil, nil, fmt.Errorf("mark delivery paid: %w", err)
	}
	if !applied {
		result.Outcome = entities.PaymentAlreadyPaid
		return result, nil, nil
	}

	if paid.Status == entities.DeliveryDelivered {
		earning, credited, err := s.earnings.SettleDelivery(ctx, paid.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("settle delivery: %w", err)
		}
		if credited {
			result.Earning = earning
		}
	}

	result.Outcome = entities.PaymentApplied
	return result, paid, nil
}

func (s *Settlement) reject(result *entities.SettlementResult, field, detail string) {
	result.Outcome = entities.PaymentRejected
	s.log.Warn("payment rejected",
		logger.NewField("reference", result.Reference),
		logger.NewField("field", field),
		logger.NewField("detail", detail),
	)
}

func (s *Settlement) cached(ctx context.Context, reference string) (*entities.SettlementResult, bool) {
	cached, ok, err := s.cache.Get(ctx, reference)
	if err != nil {
		s.log.Warn("read processed reference cache",
			logger.NewField("reference", reference),
			logger.ErrorField(err),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	cached.Replayed = true
	return cached, true
}
