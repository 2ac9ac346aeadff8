package earning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/service/earnings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var earningColumns = []string{"id", "courier_id", "delivery_id", "amount", "status", "created_at", "completed_at"}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// InsertEarning writes at most one earning per delivery. When the delivery
// already has one, the stored row is returned with inserted == false.
func (r *Repository) InsertEarning(ctx context.Context, earning entities.CourierEarning) (*entities.CourierEarning, bool, error) {
	query, args, err := qb.
		Insert("courier_earnings").
		Columns("courier_id", "delivery_id", "amount", "status", "created_at", "completed_at").
		Values(
			earning.CourierID,
			earning.DeliveryID,
			earning.Amount,
			string(earning.Status),
			earning.CreatedAt,
			earning.CompletedAt,
		).
		Suffix("ON CONFLICT (delivery_id) DO NOTHING").
		Suffix("RETURNING id, courier_id, delivery_id, amount, status, created_at, completed_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("unexpected earning repository insertearning error: %w", err)
	}

	var earningDB CourierEarningDB
	err = scanEarning(r.querier.QueryRow(ctx, query, args...), &earningDB)
	if err == nil {
		return ToDomain(&earningDB), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("unexpected earning repository insertearning error: %w", err)
	}

	query, args, err = qb.
		Select(earningColumns...).
		From("courier_earnings").
		Where(sq.Eq{"delivery_id": earning.DeliveryID}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("unexpected earning repository insertearning error: %w", err)
	}
	if err := scanEarning(r.querier.QueryRow(ctx, query, args...), &earningDB); err != nil {
		return nil, false, fmt.Errorf("unexpected earning repository insertearning error: %w", err)
	}

	return ToDomain(&earningDB), false, nil
}

// IncrementAccount credits the courier's account in one statement, creating
// it on first use.
func (r *Repository) IncrementAccount(ctx context.Context, courierID int64, amount decimal.Decimal, at time.Time) error {
	query := `INSERT INTO courier_accounts
		(courier_id, available_balance, total_earnings, completed_deliveries, updated_at)
		VALUES ($1, $2, $2, 1, $3)
		ON CONFLICT (courier_id) DO UPDATE SET
			available_balance = courier_accounts.available_balance + EXCLUDED.available_balance,
			total_earnings = courier_accounts.total_earnings + EXCLUDED.total_earnings,
			completed_deliveries = courier_accounts.completed_deliveries + 1,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.querier.Exec(ctx, query, courierID, amount, at); err != nil {
		return fmt.Errorf("unexpected earning repository incrementaccount error: %w", err)
	}
	return nil
}

// GetAccount returns a zero account for a courier who has not been credited yet.
func (r *Repository) GetAccount(ctx context.Context, courierID int64) (*entities.CourierAccount, error) {
	query := `SELECT c.id,
			COALESCE(a.available_balance, 0),
			COALESCE(a.total_earnings, 0),
			COALESCE(a.completed_deliveries, 0),
			a.updated_at
		FROM couriers c
		LEFT JOIN courier_accounts a ON a.courier_id = c.id
		WHERE c.id = $1`

	var accountDB CourierAccountDB
	err := r.querier.QueryRow(ctx, query, courierID).
		Scan(
			&accountDB.CourierID,
			&accountDB.AvailableBalance,
			&accountDB.TotalEarnings,
			&accountDB.CompletedDeliveries,
			&accountDB.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, earnings.ErrCourierNotFound
		}
		return nil, fmt.Errorf("unexpected earning repository getaccount error: %w", err)
	}

	return AccountToDomain(&accountDB), nil
}

func (r *Repository) ListEarnings(ctx context.Context, courierID int64, limit, offset uint64) ([]entities.CourierEarning, error) {
	query, args, err := qb.
		Select(earningColumns...).
		From("courier_earnings").
		Where(sq.Eq{"courier_id": courierID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected earning repository listearnings error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected earning repository listearnings error: %w", err)
	}
	defer rows.Close()

	earningsDB := make([]CourierEarningDB, 0, 8)
	for rows.Next() {
		var earningDB CourierEarningDB
		if err := scanEarning(rows, &earningDB); err != nil {
			return nil, fmt.Errorf("unexpected earning repository listearnings error: %w", err)
		}
		earningsDB = append(earningsDB, earningDB)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected earning repository listearnings error: %w", err)
	}

	return ToDomainList(earningsDB), nil
}

// ListUnsettledDeliveryIDs finds deliveries that are delivered, paid and
// assigned but were never credited.
func (r *Repository) ListUnsettledDeliveryIDs(ctx context.Context, limit uint64) ([]int64, error) {
	query, args, err := qb.
		Select("d.id").
		From("deliveries d").
		LeftJoin("courier_earnings e ON e.delivery_id = d.id").
		Where(sq.Eq{
			"d.status":         entities.DeliveryDelivered.String(),
			"d.payment_status": entities.PaymentCompleted.String(),
			"e.id":             nil,
		}).
		Where(sq.NotEq{"d.courier_id": nil}).
		OrderBy("d.id").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected earning repository listunsettled error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected earning repository listunsettled error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unexpected earning repository listunsettled error: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected earning repository listunsettled error: %w", err)
	}

	return ids, nil
}

func scanEarning(row pgx.Row, e *CourierEarningDB) error {
	return row.Scan(
		&e.ID,
		&e.CourierID,
		&e.DeliveryID,
		&e.Amount,
		&e.Status,
		&e.CreatedAt,
		&e.CompletedAt,
	)
}
