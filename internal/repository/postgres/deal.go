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

const dealColumns = `id, business_id, created_by, title, description, original_price, discounted_price,
	discount_percentage, category, city, tags, start_date, end_date, status, is_featured,
	views_count, saves_count, quantity_available, terms, created_at, updated_at`

var dealOrderBy = map[string]string{
	domain.DealSortNewest:   "is_featured DESC, created_at DESC",
	domain.DealSortDiscount: "discount_percentage DESC, created_at DESC",
	domain.DealSortPrice:    "discounted_price ASC, created_at DESC",
}

// DealRepository implements repository.DealRepository using PostgreSQL.
type DealRepository struct {
	db database.DBTX
}

// NewDealRepository creates a new PostgreSQL-backed deal repository.
func NewDealRepository(db database.DBTX) *DealRepository {
	return &DealRepository{db: db}
}

// Create inserts a new deal.
func (r *DealRepository) Create(ctx context.Context, d *domain.Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.db.Exec(ctx, query, dealArgs(d)...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.NotFound("business", d.BusinessID)
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID retrieves a deal by ID.
func (r *DealRepository) GetByID(ctx context.Context, id string) (d *domain.Deal, err error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "deals.GetByID", query)
	defer func() { end(err) }()

	d, err = scanDeal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("deal", id)
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// List returns deals matching filter with the total count.
func (r *DealRepository) List(ctx context.Context, filter repository.DealFilter) (deals []domain.Deal, total int, err error) {
	var w where
	if filter.Category != nil {
		w.add("category = $%d", *filter.Category)
	}
	if filter.City != nil {
		w.add("city ILIKE $%d", *filter.City)
	}
	if filter.BusinessID != nil {
		w.add("business_id = $%d", *filter.BusinessID)
	}
	if filter.CreatedBy != nil {
		w.add("created_by = $%d", *filter.CreatedBy)
	}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	if filter.MinDiscount != nil {
		w.add("discount_percentage >= $%d", *filter.MinDiscount)
	}
	if filter.MaxDiscount != nil {
		w.add("discount_percentage <= $%d", *filter.MaxDiscount)
	}
	if filter.MaxPrice != nil {
		w.add("discounted_price <= $%d", *filter.MaxPrice)
	}
	if filter.Featured != nil {
		w.add("is_featured = $%d", *filter.Featured)
	}
	if filter.Search != nil {
		w.addSearch([]string{"title", "description", "array_to_string(tags, ' ')"}, *filter.Search)
	}

	orderBy, ok := dealOrderBy[filter.Sort]
	if !ok {
		orderBy = dealOrderBy[domain.DealSortNewest]
	}

	limit, offset := w.page(filter.Page)
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM deals
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`, dealColumns, w.clause(), orderBy, limit, offset)

	ctx, end := database.TraceQuery(ctx, "deals.List", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	deals, total, err = collectDeals(rows)
	if err != nil {
		return nil, 0, err
	}
	total, err = pageTotal(ctx, r.db, len(deals), filter.Page, total,
		`SELECT count(*) FROM deals `+w.clause(), w.filterArgs()...)
	if err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}
	return deals, total, nil
}

// Update writes the editable fields of a deal.
func (r *DealRepository) Update(ctx context.Context, d *domain.Deal) error {
	query := `
		UPDATE deals
		SET title = $2, description = $3, original_price = $4, discounted_price = $5,
		    discount_percentage = $6, category = $7, city = $8, tags = $9, start_date = $10,
		    end_date = $11, status = $12, is_featured = $13, quantity_available = $14, terms = $15,
		    updated_at = $16
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		d.ID, d.Title, d.Description, d.OriginalPrice, d.DiscountedPrice,
		d.DiscountPercentage, d.Category, d.City, d.Tags, d.StartDate,
		d.EndDate, d.Status, d.IsFeatured, d.QuantityAvailable, d.Terms,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("deal", d.ID)
	}
	return nil
}

// Delete removes a deal.
func (r *DealRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("deal", id)
	}
	return nil
}

// IncrementViews bumps views_count by one.
func (r *DealRepository) IncrementViews(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE deals SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment deal views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("deal", id)
	}
	return nil
}

func dealArgs(d *domain.Deal) []any {
	return []any{
		d.ID, d.BusinessID, d.CreatedBy, d.Title, d.Description, d.OriginalPrice, d.DiscountedPrice,
		d.DiscountPercentage, d.Category, d.City, d.Tags, d.StartDate, d.EndDate, d.Status, d.IsFeatured,
		d.ViewsCount, d.SavesCount, d.QuantityAvailable, d.Terms, d.CreatedAt, d.UpdatedAt,
	}
}

func dealDest(d *domain.Deal) []any {
	return []any{
		&d.ID, &d.BusinessID, &d.CreatedBy, &d.Title, &d.Description, &d.OriginalPrice, &d.DiscountedPrice,
		&d.DiscountPercentage, &d.Category, &d.City, &d.Tags, &d.StartDate, &d.EndDate, &d.Status, &d.IsFeatured,
		&d.ViewsCount, &d.SavesCount, &d.QuantityAvailable, &d.Terms, &d.CreatedAt, &d.UpdatedAt,
	}
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var d domain.Deal
	if err := row.Scan(dealDest(&d)...); err != nil {
		return nil, err
	}
	return &d, nil
}

// collectDeals scans rows carrying a trailing total_count column.
func collectDeals(rows pgx.Rows) ([]domain.Deal, int, error) {
	deals := []domain.Deal{}
	var total int
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(append(dealDest(&d), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan deal row: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate deal rows: %w", err)
	}
	return deals, total, nil
}
