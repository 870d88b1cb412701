package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/event"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
)

// BusinessService implements business profile management.
type BusinessService struct {
	repo     repository.BusinessRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewBusinessService creates a new business service.
func NewBusinessService(repo repository.BusinessRepository, producer *event.Producer, logger *slog.Logger) *BusinessService {
	return &BusinessService{repo: repo, producer: producer, logger: logger}
}

// CreateBusinessInput holds the parameters for creating a business.
type CreateBusinessInput struct {
	Name        string
	Description string
	Category    string
	Email       string
	Phone       string
	Website     *string
	Address     string
	City        string
}

// UpdateBusinessInput holds the fields that may change on a business.
type UpdateBusinessInput struct {
	Name        *string
	Description *string
	Category    *string
	Email       *string
	Phone       *string
	Website     *string
	Address     *string
	City        *string
}

// Create registers a business owned by the caller. The caller must be a
// business owner.
func (s *BusinessService) Create(ctx context.Context, p *auth.Principal, input CreateBusinessInput) (*domain.Business, error) {
	if err := auth.RequireBusinessOwner(p); err != nil {
		return nil, err
	}
	if !slices.Contains(domain.BusinessCategories, input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown business category %q", input.Category))
	}

	now := time.Now().UTC()
	b := &domain.Business{
		ID:          uuid.New().String(),
		OwnerID:     p.ID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Email:       domain.NormalizeEmail(input.Email),
		Phone:       input.Phone,
		Website:     input.Website,
		Address:     input.Address,
		City:        input.City,
		Status:      domain.BusinessStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}

	if err := s.producer.PublishBusinessCreated(ctx, b); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish business.created event",
			slog.String("business_id", b.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "business created",
		slog.String("business_id", b.ID),
		slog.String("owner_id", p.ID),
	)
	return b, nil
}

// GetByID returns a business.
func (s *BusinessService) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered page of businesses.
func (s *BusinessService) List(ctx context.Context, filter repository.BusinessFilter) ([]domain.Business, int, error) {
	return s.repo.List(ctx, filter)
}

// ListMine returns the businesses owned by the caller.
func (s *BusinessService) ListMine(ctx context.Context, p *auth.Principal, filter repository.BusinessFilter) ([]domain.Business, int, error) {
	filter.OwnerID = &p.ID
	return s.repo.List(ctx, filter)
}

// Update changes a business. Only its owner may do so.
func (s *BusinessService) Update(ctx context.Context, p *auth.Principal, id string, input UpdateBusinessInput) (*domain.Business, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, b.OwnerID, "business"); err != nil {
		return nil, err
	}

	if input.Name != nil {
		b.Name = *input.Name
	}
	if input.Description != nil {
		b.Description = *input.Description
	}
	if input.Category != nil {
		if !slices.Contains(domain.BusinessCategories, *input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown business category %q", *input.Category))
		}
		b.Category = *input.Category
	}
	if input.Email != nil {
		b.Email = domain.NormalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		b.Phone = *input.Phone
	}
	if input.Website != nil {
		b.Website = input.Website
	}
	if input.Address != nil {
		b.Address = *input.Address
	}
	if input.City != nil {
		b.City = *input.City
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}

	s.logger.InfoContext(ctx, "business updated", slog.String("business_id", b.ID))
	return b, nil
}

// Delete removes a business. Only its owner or an administrator may do so.
func (s *BusinessService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrAdmin(p, b.OwnerID, "business"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	s.logger.InfoContext(ctx, "business deleted",
		slog.String("business_id", id),
		slog.String("actor_id", p.ID),
	)
	return nil
}
