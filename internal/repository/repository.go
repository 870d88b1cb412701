package repository

import (
	"context"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user. Duplicate email or username yields ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by normalized username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update writes the profile and status fields of an existing user.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// List returns users ordered by creation time with the total count.
	List(ctx context.Context, page pagination.Params) ([]domain.User, int, error)

	// ListAdmins returns all administrators.
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

// BusinessFilter defines filter criteria for listing businesses.
type BusinessFilter struct {
	Category *string
	City     *string
	Search   *string
	OwnerID  *string
	Status   *string
	Page     pagination.Params
}

// BusinessRepository defines the interface for business persistence operations.
type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) error
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	List(ctx context.Context, filter BusinessFilter) ([]domain.Business, int, error)
	Update(ctx context.Context, b *domain.Business) error
	Delete(ctx context.Context, id string) error

	// RefreshRating recomputes rating_average and rating_count from the
	// reviews table.
	RefreshRating(ctx context.Context, id string) error
}

// DealFilter defines filter criteria for listing deals.
type DealFilter struct {
	Category    *string
	City        *string
	BusinessID  *string
	CreatedBy   *string
	Status      *string
	Search      *string
	MinDiscount *float64
	MaxDiscount *float64
	MaxPrice    *int64
	Featured    *bool
	Sort        string
	Page        pagination.Params
}

// DealRepository defines the interface for deal persistence operations.
type DealRepository interface {
	Create(ctx context.Context, d *domain.Deal) error
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	List(ctx context.Context, filter DealFilter) ([]domain.Deal, int, error)
	Update(ctx context.Context, d *domain.Deal) error
	Delete(ctx context.Context, id string) error

	// IncrementViews bumps views_count by one.
	IncrementViews(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a review. A second review of the same deal by the same
	// user yields ErrConflict.
	Create(ctx context.Context, r *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByDeal(ctx context.Context, dealID string, page pagination.Params) ([]domain.Review, int, error)
	ListByUser(ctx context.Context, userID string, page pagination.Params) ([]domain.Review, int, error)
	Update(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
	IncrementHelpful(ctx context.Context, id string) error

	// RatingCounts returns the number of reviews per star for a deal.
	RatingCounts(ctx context.Context, dealID string) (map[int]int, error)
}

// FavoriteRepository defines the interface for saved-deal persistence.
type FavoriteRepository interface {
	// Add saves dealID for userID and increments the deal's saves_count.
	Add(ctx context.Context, userID, dealID string) error

	// Remove deletes the favorite and decrements saves_count.
	Remove(ctx context.Context, userID, dealID string) error

	Exists(ctx context.Context, userID, dealID string) (bool, error)

	// ListDeals returns the deals userID saved, most recent first.
	ListDeals(ctx context.Context, userID string, page pagination.Params) ([]domain.Deal, int, error)
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error

	// ListActive returns active categories ordered by sort_order then name.
	ListActive(ctx context.Context) ([]domain.Category, error)

	// ListChildren returns the active subcategories of parentID in display order.
	ListChildren(ctx context.Context, parentID string) ([]domain.Category, error)

	// Stats summarizes categories and returns the top active ones by live deal count.
	Stats(ctx context.Context, top int) (*domain.CategoryStats, error)
}

// CategoryCache caches the active category list.
type CategoryCache interface {
	Get(ctx context.Context) ([]domain.Category, bool, error)
	Set(ctx context.Context, categories []domain.Category) error
	Invalidate(ctx context.Context) error
}

// Tx groups the repositories that share one database transaction.
type Tx struct {
	Reviews    ReviewRepository
	Businesses BusinessRepository
}

// Transactor runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
