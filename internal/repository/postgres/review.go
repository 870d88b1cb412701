package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/pkg/database"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

const reviewColumns = `id, deal_id, business_id, user_id, rating, title, comment, helpful_count, created_at, updated_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		rv.ID, rv.DealID, rv.BusinessID, rv.UserID, rv.Rating,
		rv.Title, rv.Comment, rv.HelpfulCount, rv.CreatedAt, rv.UpdatedAt,
	)
	if err != nil {
		if _, ok := database.IsUniqueViolation(err); ok {
			return apperrors.Conflict("you have already reviewed this deal")
		}
		if database.IsForeignKeyViolation(err) {
			return apperrors.NotFound("deal", rv.DealID)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id).Scan(
		&rv.ID, &rv.DealID, &rv.BusinessID, &rv.UserID, &rv.Rating,
		&rv.Title, &rv.Comment, &rv.HelpfulCount, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

// ListByDeal returns a page of reviews for a deal, newest first, with the total count.
func (r *ReviewRepository) ListByDeal(ctx context.Context, dealID string, page pagination.Params) ([]domain.Review, int, error) {
	return r.listBy(ctx, "deal_id", dealID, page)
}

// ListByUser returns a page of reviews written by a user, newest first, with the total count.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string, page pagination.Params) ([]domain.Review, int, error) {
	return r.listBy(ctx, "user_id", userID, page)
}

// listBy pages reviews where column equals value. column is never user input.
func (r *ReviewRepository) listBy(ctx context.Context, column, value string, page pagination.Params) ([]domain.Review, int, error) {
	query := `
		SELECT ` + reviewColumns + `, count(*) OVER() AS total_count
		FROM reviews
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, value, page.PerPage, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	var total int
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID, &rv.DealID, &rv.BusinessID, &rv.UserID, &rv.Rating,
			&rv.Title, &rv.Comment, &rv.HelpfulCount, &rv.CreatedAt, &rv.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}
	total, err = pageTotal(ctx, r.db, len(reviews), page, total,
		`SELECT count(*) FROM reviews WHERE `+column+` = $1`, value)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	return reviews, total, nil
}

// Update writes the rating, title and comment of a review.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reviews SET rating = $2, title = $3, comment = $4, updated_at = $5 WHERE id = $1`,
		rv.ID, rv.Rating, rv.Title, rv.Comment, rv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", rv.ID)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// IncrementHelpful bumps helpful_count by one.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment helpful: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// RatingCounts returns how many reviews of a deal carry each star rating.
func (r *ReviewRepository) RatingCounts(ctx context.Context, dealID string) (map[int]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE deal_id = $1 GROUP BY rating`, dealID)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int, 5)
	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, fmt.Errorf("scan rating count: %w", err)
		}
		counts[rating] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating counts: %w", err)
	}
	return counts, nil
}
