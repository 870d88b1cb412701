package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
	"github.com/jenfranx30/savemate-backend/pkg/slug"
)

// CategoryService manages deal categories. The active list is served
// cache-aside; any write invalidates it.
type CategoryService struct {
	repo   repository.CategoryRepository
	cache  repository.CategoryCache
	logger *slog.Logger
}

// NewCategoryService creates a new category service. cache may be nil.
func NewCategoryService(repo repository.CategoryRepository, cache repository.CategoryCache, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, cache: cache, logger: logger}
}

// CategoryInput holds the parameters for creating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description *string
	Icon        string
	Color       string
	Image       *string
	ParentID    *string
	SortOrder   int
	IsActive    *bool
	IsFeatured  bool
}

// UpdateCategoryInput holds the fields that may change on a category. An
// empty ParentID detaches the category from its parent.
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	Icon        *string
	Color       *string
	Image       *string
	ParentID    *string
	SortOrder   *int
	IsActive    *bool
	IsFeatured  *bool
}

// List returns the active categories. A cache failure falls back to the
// database.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	if s.cache != nil {
		categories, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "category cache read failed",
				slog.String("error", err.Error()),
			)
		} else if ok {
			return categories, nil
		}
	}

	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.WarnContext(ctx, "category cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return categories, nil
}

// Featured returns the active categories flagged as featured, in list order.
func (s *CategoryService) Featured(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsFeatured {
			featured = append(featured, c)
		}
	}
	return featured, nil
}

// GetByID returns a category by its ID.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns a category by its slug together with its active
// subcategories.
func (s *CategoryService) GetBySlug(ctx context.Context, slugValue string) (*domain.CategoryDetail, error) {
	c, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.ListChildren(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	if children == nil {
		children = []domain.Category{}
	}
	return &domain.CategoryDetail{Category: *c, Subcategories: children}, nil
}

// Stats returns category totals and the categories with the most active
// deals.
func (s *CategoryService) Stats(ctx context.Context) (*domain.CategoryStats, error) {
	stats, err := s.repo.Stats(ctx, domain.TopCategoriesLimit)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return stats, nil
}

// checkParent verifies that parentID may own child. Categories nest one
// level deep.
func (s *CategoryService) checkParent(ctx context.Context, childID, parentID string) error {
	if parentID == childID {
		return apperrors.InvalidInput("category cannot be its own parent")
	}
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ParentID != nil {
		return apperrors.InvalidInput("subcategories cannot have subcategories")
	}
	return nil
}

// Create adds a category. An empty slug is generated from the name.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	slugValue := input.Slug
	if slugValue == "" {
		slugValue = slug.Generate(input.Name)
	}
	if slugValue == "" {
		return nil, apperrors.InvalidInput("category name must contain letters or digits")
	}

	now := time.Now().UTC()
	c := &domain.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slugValue,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		Image:       input.Image,
		SortOrder:   input.SortOrder,
		IsActive:    true,
		IsFeatured:  input.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Icon == "" {
		c.Icon = domain.DefaultCategoryIcon
	}
	if c.Color == "" {
		c.Color = domain.DefaultCategoryColor
	}
	if input.IsActive != nil {
		c.IsActive = *input.IsActive
	}
	if input.ParentID != nil && *input.ParentID != "" {
		if err := s.checkParent(ctx, c.ID, *input.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = input.ParentID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", c.ID),
		slog.String("slug", c.Slug),
	)
	return c, nil
}

// Update changes a category.
func (s *CategoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Slug != nil {
		c.Slug = *input.Slug
	}
	if input.Description != nil {
		c.Description = input.Description
	}
	if input.Icon != nil {
		c.Icon = *input.Icon
	}
	if input.Color != nil {
		c.Color = *input.Color
	}
	if input.Image != nil {
		c.Image = input.Image
	}
	if input.SortOrder != nil {
		c.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		c.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		c.IsFeatured = *input.IsFeatured
	}
	if input.ParentID != nil {
		if *input.ParentID == "" {
			c.ParentID = nil
		} else {
			if err := s.checkParent(ctx, c.ID, *input.ParentID); err != nil {
				return nil, err
			}
			children, err := s.repo.ListChildren(ctx, c.ID)
			if err != nil {
				return nil, fmt.Errorf("list subcategories: %w", err)
			}
			if len(children) > 0 {
				return nil, apperrors.InvalidInput("category with subcategories cannot have a parent")
			}
			c.ParentID = input.ParentID
		}
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

// Delete removes a category. A category that still has active deals is
// kept.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.DealsCount > 0 {
		return apperrors.InvalidInput(fmt.Sprintf("category has %d active deals", c.DealsCount))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "category cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
