// Package uow runs complaint writes in one transaction and defers side
// effects, like event publishing, until the commit succeeded.
package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/kirinyoku/tourdash/internal/repository/postgres"
)

type AfterCommit func(ctx context.Context)

// Tx is the view of the store inside one unit of work.
type Tx struct {
	Complaints *postgres.ComplaintRepo

	hooks []AfterCommit
}

// OnCommit queues h to run once the transaction has committed. Nothing
// queued runs on rollback.
func (t *Tx) OnCommit(h AfterCommit) {
	if h != nil {
		t.hooks = append(t.hooks, h)
	}
}

type UoW struct {
	store *postgres.Store
	opts  *pgx.TxOptions
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Serializable returns a copy of u whose transactions run at the
// serializable level.
func (u *UoW) Serializable() *UoW {
	return &UoW{
		store: u.store,
		opts:  &pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite},
	}
}

// Do runs fn in a transaction, then the hooks fn queued, in order.
func (u *UoW) Do(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, u.opts, func(ctx context.Context, db postgres.DB) error {
		tx := &Tx{Complaints: u.store.Complaints().With(db)}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		hooks = tx.hooks
		return nil
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}
	return nil
}
