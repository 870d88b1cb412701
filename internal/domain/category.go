package domain

import "time"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// DefaultCategoryIcon is used when a category is created without an icon.
const DefaultCategoryIcon = "tag"

// TopCategoriesLimit is how many categories CategoryStats ranks.
const TopCategoriesLimit = 5

// Category groups deals for browsing. Categories nest one level deep through
// ParentID. DealsCount is derived from active deals whose category equals
// the slug and is never written.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Image       *string   `json:"image,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	SortOrder   int       `json:"sort_order"`
	DealsCount  int       `json:"deals_count"`
	IsActive    bool      `json:"is_active"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryDetail is a category with its active subcategories.
type CategoryDetail struct {
	Category
	Subcategories []Category `json:"subcategories"`
}

// CategoryStats is the category overview.
type CategoryStats struct {
	TotalCategories    int        `json:"total_categories"`
	ActiveCategories   int        `json:"active_categories"`
	FeaturedCategories int        `json:"featured_categories"`
	TotalDeals         int        `json:"total_deals"`
	TopCategories      []Category `json:"top_categories"`
}

// Favorite records that a user saved a deal.
type Favorite struct {
	UserID    string    `json:"user_id"`
	DealID    string    `json:"deal_id"`
	CreatedAt time.Time `json:"created_at"`
}
