package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	"github.com/jenfranx30/savemate-backend/pkg/database"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
)

const businessColumns = `id, owner_id, name, description, category, email, phone, website, address, city,
	rating_average, rating_count, status, created_at, updated_at`

// BusinessRepository implements repository.BusinessRepository using PostgreSQL.
type BusinessRepository struct {
	db database.DBTX
}

// NewBusinessRepository creates a new PostgreSQL-backed business repository.
func NewBusinessRepository(db database.DBTX) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Create inserts a new business.
func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.OwnerID, b.Name, b.Description, b.Category, b.Email, b.Phone, b.Website,
		b.Address, b.City, b.RatingAverage, b.RatingCount, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.NotFound("user", b.OwnerID)
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID retrieves a business by ID.
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (b *domain.Business, err error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "businesses.GetByID", query)
	defer func() { end(err) }()

	b, err = scanBusiness(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("business", id)
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// List returns businesses matching filter, highest rated first, with the total count.
func (r *BusinessRepository) List(ctx context.Context, filter repository.BusinessFilter) ([]domain.Business, int, error) {
	var w where
	if filter.Category != nil {
		w.add("category = $%d", *filter.Category)
	}
	if filter.City != nil {
		w.add("city ILIKE $%d", *filter.City)
	}
	if filter.OwnerID != nil {
		w.add("owner_id = $%d", *filter.OwnerID)
	}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	if filter.Search != nil {
		w.addSearch([]string{"name", "description"}, *filter.Search)
	}

	limit, offset := w.page(filter.Page)
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM businesses
		%s
		ORDER BY rating_average DESC, created_at DESC
		LIMIT %s OFFSET %s`, businessColumns, w.clause(), limit, offset)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	businesses := []domain.Business{}
	var total int
	for rows.Next() {
		var b domain.Business
		if err := rows.Scan(
			&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Category, &b.Email, &b.Phone, &b.Website,
			&b.Address, &b.City, &b.RatingAverage, &b.RatingCount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan business row: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate business rows: %w", err)
	}
	total, err = pageTotal(ctx, r.db, len(businesses), filter.Page, total,
		`SELECT count(*) FROM businesses `+w.clause(), w.filterArgs()...)
	if err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}
	return businesses, total, nil
}

// Update writes the editable fields of a business.
func (r *BusinessRepository) Update(ctx context.Context, b *domain.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, description = $3, category = $4, email = $5, phone = $6, website = $7,
		    address = $8, city = $9, status = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		b.ID, b.Name, b.Description, b.Category, b.Email, b.Phone, b.Website,
		b.Address, b.City, b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("business", b.ID)
	}
	return nil
}

// Delete removes a business and, by cascade, its deals and reviews.
func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("business", id)
	}
	return nil
}

// RefreshRating recomputes the rating aggregate from the reviews table.
func (r *BusinessRepository) RefreshRating(ctx context.Context, id string) error {
	query := `
		UPDATE businesses b
		SET rating_average = COALESCE(ROUND(s.avg_rating, 2), 0),
		    rating_count = s.cnt,
		    updated_at = NOW()
		FROM (SELECT AVG(rating)::numeric AS avg_rating, COUNT(*) AS cnt FROM reviews WHERE business_id = $1) s
		WHERE b.id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("refresh business rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("business", id)
	}
	return nil
}

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var b domain.Business
	if err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Category, &b.Email, &b.Phone, &b.Website,
		&b.Address, &b.City, &b.RatingAverage, &b.RatingCount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
