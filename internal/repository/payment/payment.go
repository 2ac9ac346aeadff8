package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"

	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, reference, delivery_id, channel, event_type, amount, currency, payload,
	received_at, processed_at, outcome`

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// InsertEvent records the first sighting of a reference. A concurrent insert
// of the same reference waits on the unique index and then falls through to
// the read of the stored row.
func (r *Repository) InsertEvent(ctx context.Context, create entities.PaymentEventCreate) (*entities.PaymentEvent, bool, error) {
	query := `INSERT INTO payment_events
		(reference, delivery_id, channel, event_type, amount, currency, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reference) DO NOTHING
		RETURNING ` + eventColumns

	var eventDB PaymentEventDB
	err := scanEvent(r.querier.QueryRow(
		ctx,
		query,
		create.Reference,
		create.DeliveryID,
		string(create.Channel),
		create.EventType,
		create.AmountMinor,
		create.Currency,
		payloadOrEmpty(create.Payload),
		create.ReceivedAt,
	), &eventDB)
	if err == nil {
		return ToDomain(&eventDB), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("unexpected payment repository insertevent error: %w", err)
	}

	stored, err := r.GetByReference(ctx, create.Reference)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (r *Repository) GetByReference(ctx context.Context, reference string) (*entities.PaymentEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM payment_events
		WHERE reference = $1`

	var eventDB PaymentEventDB
	if err := scanEvent(r.querier.QueryRow(ctx, query, reference), &eventDB); err != nil {
		return nil, fmt.Errorf("unexpected payment repository getbyreference error: %w", err)
	}
	return ToDomain(&eventDB), nil
}

// MarkProcessed stores the outcome of a reference. A recorded APPLIED outcome
// is kept, so a racing duplicate cannot relabel the charge that paid.
func (r *Repository) MarkProcessed(
	ctx context.Context,
	reference string,
	deliveryID *int64,
	outcome entities.PaymentOutcome,
	at time.Time,
) error {
	query := `UPDATE payment_events
		SET processed_at = $2,
			outcome = CASE WHEN outcome = 'APPLIED' THEN outcome ELSE $3 END,
			delivery_id = COALESCE($4, delivery_id)
		WHERE reference = $1`

	result, err := r.querier.Exec(ctx, query, reference, at, outcome.String(), deliveryID)
	if err != nil {
		return fmt.Errorf("unexpected payment repository markprocessed error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("unexpected payment repository markprocessed error: reference %q not recorded", reference)
	}

	return nil
}

func scanEvent(row pgx.Row, e *PaymentEventDB) error {
	return row.Scan(
		&e.ID,
		&e.Reference,
		&e.DeliveryID,
		&e.Channel,
		&e.EventType,
		&e.Amount,
		&e.Currency,
		&e.Payload,
		&e.ReceivedAt,
		&e.ProcessedAt,
		&e.Outcome,
	)
}
