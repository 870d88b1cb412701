package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/event"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
)

// DealService implements deal publishing and browsing.
type DealService struct {
	deals      repository.DealRepository
	businesses repository.BusinessRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewDealService creates a new deal service.
func NewDealService(
	deals repository.DealRepository,
	businesses repository.BusinessRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *DealService {
	return &DealService{deals: deals, businesses: businesses, producer: producer, logger: logger}
}

// CreateDealInput holds the parameters for creating a deal. City defaults
// to the business city and Status to active.
type CreateDealInput struct {
	BusinessID        string
	Title             string
	Description       string
	OriginalPrice     int64
	DiscountedPrice   int64
	Category          string
	City              string
	Tags              []string
	StartDate         time.Time
	EndDate           time.Time
	Status            string
	IsFeatured        bool
	QuantityAvailable *int
	Terms             *string
}

// UpdateDealInput holds the fields that may change on a deal.
type UpdateDealInput struct {
	Title             *string
	Description       *string
	OriginalPrice     *int64
	DiscountedPrice   *int64
	Category          *string
	City              *string
	Tags              []string
	StartDate         *time.Time
	EndDate           *time.Time
	Status            *string
	IsFeatured        *bool
	QuantityAvailable *int
	Terms             *string
}

// Create publishes a deal for a business the caller owns.
func (s *DealService) Create(ctx context.Context, p *auth.Principal, input CreateDealInput) (*domain.Deal, error) {
	if err := auth.RequireBusinessOwner(p); err != nil {
		return nil, err
	}

	b, err := s.businesses.GetByID(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, b.OwnerID, "business"); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.DealStatusActive
	}
	if !domain.IsValidDealStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid deal status %q", status))
	}
	city := input.City
	if city == "" {
		city = b.City
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	d := &domain.Deal{
		ID:                uuid.New().String(),
		BusinessID:        b.ID,
		CreatedBy:         p.ID,
		Title:             input.Title,
		Description:       input.Description,
		OriginalPrice:     input.OriginalPrice,
		DiscountedPrice:   input.DiscountedPrice,
		Category:          input.Category,
		City:              city,
		Tags:              tags,
		StartDate:         input.StartDate.UTC(),
		EndDate:           input.EndDate.UTC(),
		Status:            status,
		IsFeatured:        input.IsFeatured,
		QuantityAvailable: input.QuantityAvailable,
		Terms:             input.Terms,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := d.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.deals.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}

	if err := s.producer.PublishDealCreated(ctx, d); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish deal.created event",
			slog.String("deal_id", d.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "deal created",
		slog.String("deal_id", d.ID),
		slog.String("business_id", d.BusinessID),
		slog.Float64("discount_percentage", d.DiscountPercentage),
	)
	return d, nil
}

// GetByID returns a deal and records a view. A failed view increment is
// logged and does not fail the read.
func (s *DealService) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.deals.IncrementViews(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to increment deal views",
			slog.String("deal_id", id),
			slog.String("error", err.Error()),
		)
		return d, nil
	}
	d.ViewsCount++
	return d, nil
}

// List returns a filtered page of deals.
func (s *DealService) List(ctx context.Context, filter repository.DealFilter) ([]domain.Deal, int, error) {
	return s.deals.List(ctx, filter)
}

// ListMine returns the deals created by the caller.
func (s *DealService) ListMine(ctx context.Context, p *auth.Principal, filter repository.DealFilter) ([]domain.Deal, int, error) {
	filter.CreatedBy = &p.ID
	return s.deals.List(ctx, filter)
}

// Update changes a deal created by the caller and recomputes its discount.
func (s *DealService) Update(ctx context.Context, p *auth.Principal, id string, input UpdateDealInput) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, d.CreatedBy, "deal"); err != nil {
		return nil, err
	}

	if input.Title != nil {
		d.Title = *input.Title
	}
	if input.Description != nil {
		d.Description = *input.Description
	}
	if input.OriginalPrice != nil {
		d.OriginalPrice = *input.OriginalPrice
	}
	if input.DiscountedPrice != nil {
		d.DiscountedPrice = *input.DiscountedPrice
	}
	if input.Category != nil {
		d.Category = *input.Category
	}
	if input.City != nil {
		d.City = *input.City
	}
	if input.Tags != nil {
		d.Tags = input.Tags
	}
	if input.StartDate != nil {
		d.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		d.EndDate = input.EndDate.UTC()
	}
	if input.Status != nil {
		if !domain.IsValidDealStatus(*input.Status) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid deal status %q", *input.Status))
		}
		d.Status = *input.Status
	}
	if input.IsFeatured != nil {
		d.IsFeatured = *input.IsFeatured
	}
	if input.QuantityAvailable != nil {
		d.QuantityAvailable = input.QuantityAvailable
	}
	if input.Terms != nil {
		d.Terms = input.Terms
	}
	if err := d.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	d.UpdatedAt = time.Now().UTC()

	if err := s.deals.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}

	s.logger.InfoContext(ctx, "deal updated", slog.String("deal_id", d.ID))
	return d, nil
}

// Delete removes a deal created by the caller.
func (s *DealService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(p, d.CreatedBy, "deal"); err != nil {
		return err
	}

	if err := s.deals.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}

	s.logger.InfoContext(ctx, "deal deleted", slog.String("deal_id", id))
	return nil
}
