package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/pkg/database"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
// Saving and unsaving keep deals.saves_count in step within one transaction.
type FavoriteRepository struct {
	db database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(db database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add saves a deal for a user.
func (r *FavoriteRepository) Add(ctx context.Context, userID, dealID string) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO favorites (user_id, deal_id, created_at) VALUES ($1, $2, NOW())`,
			userID, dealID)
		if err != nil {
			if _, ok := database.IsUniqueViolation(err); ok {
				return apperrors.Conflict("deal is already in favorites")
			}
			if database.IsForeignKeyViolation(err) {
				return apperrors.NotFound("deal", dealID)
			}
			return fmt.Errorf("insert favorite: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE deals SET saves_count = saves_count + 1 WHERE id = $1`, dealID); err != nil {
			return fmt.Errorf("increment saves: %w", err)
		}
		return nil
	})
}

// Remove unsaves a deal for a user.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, dealID string) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM favorites WHERE user_id = $1 AND deal_id = $2`, userID, dealID)
		if err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("favorite", dealID)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE deals SET saves_count = GREATEST(saves_count - 1, 0) WHERE id = $1`, dealID); err != nil {
			return fmt.Errorf("decrement saves: %w", err)
		}
		return nil
	})
}

// Exists reports whether a user saved a deal.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, dealID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND deal_id = $2)`,
		userID, dealID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

// ListDeals returns a page of deals saved by a user, most recently saved first.
func (r *FavoriteRepository) ListDeals(ctx context.Context, userID string, page pagination.Params) ([]domain.Deal, int, error) {
	query := `
		SELECT d.id, d.business_id, d.created_by, d.title, d.description, d.original_price, d.discounted_price,
		       d.discount_percentage, d.category, d.city, d.tags, d.start_date, d.end_date, d.status, d.is_featured,
		       d.views_count, d.saves_count, d.quantity_available, d.terms, d.created_at, d.updated_at,
		       count(*) OVER() AS total_count
		FROM favorites f
		JOIN deals d ON d.id = f.deal_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, page.PerPage, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorite deals: %w", err)
	}
	defer rows.Close()

	deals, total, err := collectDeals(rows)
	if err != nil {
		return nil, 0, err
	}
	total, err = pageTotal(ctx, r.db, len(deals), page, total,
		`SELECT count(*) FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}
	return deals, total, nil
}
