package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jenfranx30/savemate-backend/internal/repository"
	"github.com/jenfranx30/savemate-backend/pkg/database"
)

// Transactor implements repository.Transactor on a pool or connection.
type Transactor struct {
	db database.DBTX
}

// NewTransactor creates a Transactor that begins transactions on db.
func NewTransactor(db database.DBTX) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn with review and business repositories bound to one transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return database.WithTx(ctx, t.db, func(tx pgx.Tx) error {
		return fn(repository.Tx{
			Reviews:    NewReviewRepository(tx),
			Businesses: NewBusinessRepository(tx),
		})
	})
}
