package delivery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/delivery"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var returningDelivery = "RETURNING " + strings.Join(deliveryColumns, ", ")

// priorityRank orders urgent work first in the available list.
const priorityRank = "CASE priority WHEN 'URGENT' THEN 0 WHEN 'EXPRESS' THEN 1 ELSE 2 END"

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, create entities.DeliveryCreate) (*entities.Delivery, error) {
	pickup, dropoff := create.Pickup, create.Dropoff

	query, args, err := qb.
		Insert("deliveries").
		SetMap(map[string]any{
			"order_id":             create.OrderID,
			"kind":                 string(create.Kind),
			"pickup_name":          pickup.Name,
			"pickup_phone":         pickup.Phone,
			"pickup_address_line":  pickup.Address.Line,
			"pickup_city":          pickup.Address.City,
			"pickup_state":         pickup.Address.State,
			"pickup_postal_code":   pickup.Address.PostalCode,
			"pickup_lat":           pickup.Address.Lat,
			"pickup_lng":           pickup.Address.Lng,
			"dropoff_name":         dropoff.Name,
			"dropoff_phone":        dropoff.Phone,
			"dropoff_address_line": dropoff.Address.Line,
			"dropoff_city":         dropoff.Address.City,
			"dropoff_state":        dropoff.Address.State,
			"dropoff_postal_code":  dropoff.Address.PostalCode,
			"dropoff_lat":          dropoff.Address.Lat,
			"dropoff_lng":          dropoff.Address.Lng,
			"scheduled_by":         create.ScheduledBy,
			"scheduled_by_role":    create.ScheduledByRole,
			"delivery_fee":         create.DeliveryFee,
			"courier_fee":          create.CourierFee,
			"platform_fee":         create.PlatformFee,
			"priority":             create.Priority.String(),
			"distance_km":          create.DistanceKm,
			"status":               entities.DeliveryPending.String(),
			"payment_status":       entities.PaymentPending.String(),
			"requires_prepayment":  create.RequiresPrepayment,
			"scheduled_pickup_at":  create.ScheduledPickupAt,
			"notes":                create.Notes,
			"created_at":           create.CreatedAt,
			"updated_at":           create.CreatedAt,
		}).
		Suffix(returningDelivery).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	var deliveryDB DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(deliveryDB.scanTargets()...)
	if err != nil {
		if repository.IsConstraintViolation(err, repository.PgErrUniqueViolation, repository.ConstraintDeliveryOrderID) {
			return nil, delivery.ErrDeliveryExistsForOrder
		}
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	return ToDomain(&deliveryDB), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, "getbyid")
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"order_id": orderID}, "getbyorderid")
}

func (r *Repository) getOne(ctx context.Context, where sq.Eq, op string) (*entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	var deliveryDB DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(deliveryDB.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	return ToDomain(&deliveryDB), nil
}

func (r *Repository) ListAvailable(ctx context.Context, filter entities.DeliveryFilter) ([]entities.Delivery, error) {
	builder := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"status": entities.DeliveryPending.String()}).
		Where(sq.Or{
			sq.Eq{"requires_prepayment": false},
			sq.Eq{"payment_status": entities.PaymentCompleted.String()},
		}).
		OrderBy(priorityRank, "created_at", "id")

	return r.list(ctx, applyFilter(builder, filter), "listavailable")
}

func (r *Repository) ListByCourier(ctx context.Context, courierID int64, filter entities.DeliveryFilter) ([]entities.Delivery, error) {
	builder := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"courier_id": courierID}).
		OrderBy("created_at DESC", "id DESC")

	return r.list(ctx, applyFilter(builder, filter), "listbycourier")
}

func applyFilter(builder sq.SelectBuilder, filter entities.DeliveryFilter) sq.SelectBuilder {
	if filter.Priority != nil {
		builder = builder.Where(sq.Eq{"priority": filter.Priority.String()})
	}
	if filter.City != nil {
		builder = builder.Where(sq.Eq{"pickup_city": *filter.City})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	return builder.Offset(filter.Offset)
}

func (r *Repository) list(ctx context.Context, builder sq.SelectBuilder, op string) ([]entities.Delivery, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}
	defer rows.Close()

	deliveriesDB := make([]DeliveryDB, 0, 8)
	for rows.Next() {
		var deliveryDB DeliveryDB
		if err := rows.Scan(deliveryDB.scanTargets()...); err != nil {
			return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
		}
		deliveriesDB = append(deliveriesDB, deliveryDB)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	return ToDomainList(deliveriesDB), nil
}

// Transition locks the row, checks it is still in one of transition.From
// (and assigned to transition.CourierID when set) and writes the new status.
// A missing row or a failed check returns applied == false.
func (r *Repository) Transition(
	ctx context.Context,
	transition entities.DeliveryTransition,
) (*entities.Delivery, entities.DeliveryStatus, bool, error) {
	var (
		current   string
		courierID *int64
	)
	err := r.querier.QueryRow(ctx,
		`SELECT status, courier_id FROM deliveries WHERE id = $1 FOR UPDATE`,
		transition.DeliveryID,
	).Scan(&current, &courierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("unexpected delivery repository transition error: %w", err)
	}

	from := entities.DeliveryStatus(current)
	if !slices.Contains(transition.From, from) {
		return nil, from, false, nil
	}
	if transition.CourierID != nil && (courierID == nil || *courierID != *transition.CourierID) {
		return nil, from, false, nil
	}

	builder := qb.
		Update("deliveries").
		Set("status", transition.To.String()).
		Set("updated_at", transition.At)

	switch transition.To {
	case entities.DeliveryPickedUp:
		builder = builder.Set("actual_pickup_at", transition.At)
	case entities.DeliveryDelivered:
		builder = builder.Set("actual_delivery_at", transition.At)
		if len(transition.ProofOfDelivery) > 0 {
			builder = builder.Set("proof_of_delivery", transition.ProofOfDelivery)
		}
		if transition.SignatureRef != nil {
			builder = builder.Set("signature_ref", transition.SignatureRef)
		}
	case entities.DeliveryCancelled:
		builder = builder.Set("cancellation_reason", transition.Reason)
	case entities.DeliveryFailed:
		builder = builder.Set("failure_reason", transition.Reason)
	}

	builder = builder.
		Where(sq.Eq{"id": transition.DeliveryID}).
		Where(sq.Eq{"status": statusStrings(transition.From)})
	if transition.CourierID != nil {
		builder = builder.Where(sq.Eq{"courier_id": *transition.CourierID})
	}

	updated, applied, err := r.updateReturning(ctx, builder, "transition")
	return updated, from, applied, err
}

// Accept claims a PENDING, unassigned delivery that is paid or needs no
// prepayment.
func (r *Repository) Accept(ctx context.Context, acceptance entities.DeliveryAcceptance) (*entities.Delivery, bool, error) {
	builder := qb.
		Update("deliveries").
		Set("courier_id", acceptance.CourierID).
		Set("status", entities.DeliveryAccepted.String()).
		Set("estimated_pickup_at", acceptance.EstimatedPickupAt).
		Set("estimated_delivery_at", acceptance.EstimatedDeliveryAt).
		Set("updated_at", acceptance.AcceptedAt).
		Where(sq.Eq{
			"id":         acceptance.DeliveryID,
			"status":     entities.DeliveryPending.String(),
			"courier_id": nil,
		}).
		Where(sq.Or{
			sq.Eq{"requires_prepayment": false},
			sq.Eq{"payment_status": entities.PaymentCompleted.String()},
		})

	return r.updateReturning(ctx, builder, "accept")
}

func (r *Repository) Rate(ctx context.Context, id int64, rating int, review *string, at time.Time) (*entities.Delivery, bool, error) {
	builder := qb.
		Update("deliveries").
		Set("rating", rating).
		Set("review", review).
		Set("updated_at", at).
		Where(sq.Eq{
			"id":     id,
			"status": entities.DeliveryDelivered.String(),
			"rating": nil,
		})

	return r.updateReturning(ctx, builder, "rate")
}

// MarkPaid completes a PENDING payment and records the reference that paid it.
func (r *Repository) MarkPaid(ctx context.Context, deliveryID int64, reference string, paidAt time.Time) (*entities.Delivery, bool, error) {
	builder := qb.
		Update("deliveries").
		Set("payment_status", entities.PaymentCompleted.String()).
		Set("payment_reference", reference).
		Set("paid_at", paidAt).
		Set("updated_at", paidAt).
		Where(sq.Eq{
			"id":             deliveryID,
			"payment_status": entities.PaymentPending.String(),
		})

	return r.updateReturning(ctx, builder, "markpaid")
}

func (r *Repository) SetPaymentReference(ctx context.Context, deliveryID int64, reference string, at time.Time) (bool, error) {
	query, args, err := qb.
		Update("deliveries").
		Set("payment_reference", reference).
		Set("payment_initialized_at", at).
		Set("updated_at", at).
		Where(sq.Eq{
			"id":             deliveryID,
			"payment_status": entities.PaymentPending.String(),
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("unexpected delivery repository setpaymentreference error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("unexpected delivery repository setpaymentreference error: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListStalePayments returns live deliveries whose payment was initialized
// before initializedBefore and never confirmed.
func (r *Repository) ListStalePayments(ctx context.Context, initializedBefore time.Time, limit uint64) ([]entities.Delivery, error) {
	builder := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"payment_status": entities.PaymentPending.String()}).
		Where(sq.NotEq{"payment_reference": nil}).
		Where(sq.Lt{"payment_initialized_at": initializedBefore}).
		Where(sq.NotEq{"status": []string{
			entities.DeliveryCancelled.String(),
			entities.DeliveryFailed.String(),
		}}).
		OrderBy("payment_initialized_at", "id").
		Limit(limit)

	return r.list(ctx, builder, "liststalepayments")
}

func (r *Repository) updateReturning(ctx context.Context, builder sq.UpdateBuilder, op string) (*entities.Delivery, bool, error) {
	query, args, err := builder.Suffix(returningDelivery).ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	var deliveryDB DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(deliveryDB.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	return ToDomain(&deliveryDB), true, nil
}

func (r *Repository) AppendHistory(ctx context.Context, entry entities.StatusHistoryEntry) error {
	var from *string
	if entry.FromStatus != nil {
		status := entry.FromStatus.String()
		from = &status
	}

	query := `INSERT INTO delivery_status_history
		(delivery_id, from_status, to_status, actor_id, note, reason, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.querier.Exec(
		ctx,
		query,
		entry.DeliveryID,
		from,
		entry.ToStatus.String(),
		entry.ActorID,
		entry.Note,
		entry.Reason,
		entry.Lat,
		entry.Lng,
		entry.CreatedAt,
	)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return delivery.ErrDeliveryNotFound
		}
		return fmt.Errorf("unexpected delivery repository appendhistory error: %w", err)
	}

	return nil
}

func (r *Repository) GetHistory(ctx context.Context, deliveryID int64) ([]entities.StatusHistoryEntry, error) {
	query := `SELECT id, delivery_id, from_status, to_status, actor_id, note, reason, lat, lng, created_at
		FROM delivery_status_history
		WHERE delivery_id = $1
		ORDER BY id`

	rows, err := r.querier.Query(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository gethistory error: %w", err)
	}
	defer rows.Close()

	history := make([]entities.StatusHistoryEntry, 0, 8)
	for rows.Next() {
		var h StatusHistoryDB
		err := rows.Scan(
			&h.ID,
			&h.DeliveryID,
			&h.FromStatus,
			&h.ToStatus,
			&h.ActorID,
			&h.Note,
			&h.Reason,
			&h.Lat,
			&h.Lng,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected delivery repository gethistory error: %w", err)
		}
		history = append(history, HistoryToDomain(&h))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository gethistory error: %w", err)
	}

	return history, nil
}
