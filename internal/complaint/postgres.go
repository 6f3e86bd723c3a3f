package complaint

import (
	"context"

	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/repository/postgres"
	"github.com/kirinyoku/tourdash/internal/uow"
)

// PostgresRepository stores complaints through a unit of work so the
// complaint row and its attachment commit together.
type PostgresRepository struct {
	uow   *uow.UoW
	store *postgres.Store
}

func NewPostgresRepository(store *postgres.Store) *PostgresRepository {
	return &PostgresRepository{
		uow:   uow.NewUoW(store).Serializable(),
		store: store,
	}
}

func (r *PostgresRepository) Save(
	ctx context.Context,
	c domain.Complaint,
	up *Upload,
	after func(ctx context.Context),
) error {
	return r.uow.Do(ctx, func(ctx context.Context, tx *uow.Tx) error {
		if err := tx.Complaints.Insert(ctx, c); err != nil {
			return err
		}
		if up != nil && c.Attachment != nil {
			if err := tx.Complaints.InsertAttachment(ctx, c.ID, *c.Attachment, up.Content); err != nil {
				return err
			}
		}

		tx.OnCommit(after)
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.Complaint, error) {
	return r.store.Complaints().Get(ctx, id)
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]domain.Complaint, error) {
	return r.store.Complaints().Recent(ctx, limit)
}
