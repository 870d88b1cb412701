package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/pkg/database"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
)

const categoryColumns = `id, name, slug, description, icon, color, image, parent_id, sort_order, is_active,
	is_featured, created_at, updated_at`

// categorySelect reads categories as c with a trailing live deals_count.
const categorySelect = `
	SELECT c.id, c.name, c.slug, c.description, c.icon, c.color, c.image, c.parent_id, c.sort_order,
	       c.is_active, c.is_featured, c.created_at, c.updated_at,
	       (SELECT count(*) FROM deals d WHERE d.category = c.slug AND d.status = 'active') AS deals_count
	FROM categories c`

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.Image, c.ParentID, c.SortOrder,
		c.IsActive, c.IsFeatured, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return categoryWriteError(err, c)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a category by slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *CategoryRepository) getOne(ctx context.Context, column, value string) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, categorySelect+` WHERE c.`+column+` = $1`, value)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", value)
		}
		return nil, fmt.Errorf("get category by %s: %w", column, err)
	}
	return c, nil
}

// Update writes all editable fields of a category.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, icon = $5, color = $6, image = $7, parent_id = $8,
		    sort_order = $9, is_active = $10, is_featured = $11, updated_at = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.Image, c.ParentID,
		c.SortOrder, c.IsActive, c.IsFeatured, c.UpdatedAt,
	)
	if err != nil {
		return categoryWriteError(err, c)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}

// ListActive returns active categories in display order.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	return r.list(ctx, categorySelect+` WHERE c.is_active ORDER BY c.sort_order, c.name`)
}

// ListChildren returns the active subcategories of parentID in display order.
func (r *CategoryRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Category, error) {
	return r.list(ctx, categorySelect+` WHERE c.parent_id = $1 AND c.is_active ORDER BY c.sort_order, c.name`, parentID)
}

// Stats counts categories and live deals and ranks the top active categories.
func (r *CategoryRepository) Stats(ctx context.Context, top int) (*domain.CategoryStats, error) {
	var st domain.CategoryStats
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_active),
		       count(*) FILTER (WHERE is_active AND is_featured),
		       (SELECT count(*) FROM deals d JOIN categories c ON c.slug = d.category WHERE d.status = 'active')
		FROM categories`,
	).Scan(&st.TotalCategories, &st.ActiveCategories, &st.FeaturedCategories, &st.TotalDeals)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	st.TopCategories, err = r.list(ctx,
		categorySelect+` WHERE c.is_active ORDER BY deals_count DESC, c.sort_order, c.name LIMIT $1`, top)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *CategoryRepository) list(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func categoryWriteError(err error, c *domain.Category) error {
	if database.IsForeignKeyViolation(err) && c.ParentID != nil {
		return apperrors.NotFound("category", *c.ParentID)
	}
	if constraint, ok := database.IsUniqueViolation(err); ok {
		if constraint == "categories_slug_key" {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return apperrors.AlreadyExists("category", "name", c.Name)
	}
	return fmt.Errorf("write category: %w", err)
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color, &c.Image, &c.ParentID, &c.SortOrder,
		&c.IsActive, &c.IsFeatured, &c.CreatedAt, &c.UpdatedAt, &c.DealsCount,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
