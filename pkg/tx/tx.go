package tx

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"
)

// Manager wraps go-transaction-manager. Nested Do calls join the outer
// transaction, so a service may call another service's transactional method
// from inside its own unit of work.
//
// Writes run under read committed. Races are settled by conditional UPDATEs
// and ON CONFLICT inserts; the loser sees zero affected rows.
type Manager struct {
	internal *manager.Manager
}

func New(db pgxv5.Transactional) *Manager {
	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
	}
}

func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.ReadCommitted, pgx.ReadWrite, fn)
}

// DoReadOnly runs fn in a read-only repeatable-read snapshot.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.RepeatableRead, pgx.ReadOnly, fn)
}

func (m *Manager) execWithIsoLevel(
	ctx context.Context,
	level pgx.TxIsoLevel,
	mode pgx.TxAccessMode,
	fn func(ctx context.Context) error,
) error {
	txSettings := pgxv5.MustSettings(
		settings.Must(),
		pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: level, AccessMode: mode}),
	)
	return m.internal.DoWithSettings(ctx, txSettings, fn)
}
