package courier

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/courier"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const courierColumns = "id, name, phone, status, transport_type, payout_account, created_at, updated_at"

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, courierModifyEntity entities.CourierModify) (int64, error) {
	courierModifyModel := FromDomainModify(&courierModifyEntity)
	query := `INSERT INTO couriers (name, phone, status, transport_type, payout_account)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.querier.QueryRow(
		ctx,
		query,
		courierModifyModel.Name,
		courierModifyModel.Phone,
		courierModifyModel.Status,
		courierModifyModel.TransportType,
		courierModifyModel.PayoutAccount,
	).Scan(&id)
	if err != nil {
		if repository.IsConstraintViolation(err, repository.PgErrUniqueViolation, repository.ConstraintCourierPhone) {
			return 0, courier.ErrConflict
		}
		return 0, fmt.Errorf("unexpected courier repository create error: %w", err)
	}

	return id, nil
}

func (r *Repository) Update(ctx context.Context, courierModifyEntity entities.CourierModify) (*entities.Courier, error) {
	courierModifyModel := FromDomainModify(&courierModifyEntity)

	changes := updateSet(courierModifyModel)
	changes["updated_at"] = sq.Expr("NOW()")

	builder := qb.
		Update("couriers").
		SetMap(changes).
		Where(sq.Eq{"id": courierModifyModel.ID}).
		Suffix("RETURNING " + courierColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected courier repository update error: %w", err)
	}

	var courierModel CourierDB
	err = scanCourier(r.querier.QueryRow(ctx, query, args...), &courierModel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, courier.ErrCourierNotFound
		}

		if repository.IsConstraintViolation(err, repository.PgErrUniqueViolation, repository.ConstraintCourierPhone) {
			return nil, courier.ErrConflict
		}

		return nil, fmt.Errorf("unexpected courier repository update error: %w", err)
	}

	return ToDomain(&courierModel), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Courier, error) {
	query := `SELECT ` + courierColumns + `
		FROM couriers
		WHERE id = $1`

	var courierModel CourierDB
	err := scanCourier(r.querier.QueryRow(ctx, query, id), &courierModel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, courier.ErrCourierNotFound
		}

		return nil, fmt.Errorf("unexpected courier repository getbyid error: %w", err)
	}

	return ToDomain(&courierModel), nil
}

func (r *Repository) GetAll(ctx context.Context) ([]entities.Courier, error) {
	query := `SELECT ` + courierColumns + `
		FROM couriers
		ORDER BY id`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unexpected courier repository getall error: %w", err)
	}

	courierModels, err := pgx.CollectRows(rows, pgx.RowToStructByPos[CourierDB])
	if err != nil {
		return nil, fmt.Errorf("unexpected courier repository getall error: %w", err)
	}

	return ToDomainList(courierModels), nil
}

func scanCourier(row pgx.Row, c *CourierDB) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Status,
		&c.TransportType,
		&c.PayoutAccount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// updateSet holds only the columns the caller sent.
func updateSet(m *CourierModifyDB) map[string]any {
	set := make(map[string]any, 6)
	if m.Name != nil {
		set["name"] = *m.Name
	}
	if m.Phone != nil {
		set["phone"] = *m.Phone
	}
	if m.Status != nil {
		set["status"] = *m.Status
	}
	if m.TransportType != nil {
		set["transport_type"] = *m.TransportType
	}
	if m.PayoutAccount != nil {
		set["payout_account"] = *m.PayoutAccount
	}
	return set
}
