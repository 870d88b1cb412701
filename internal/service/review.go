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
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// ReviewService implements deal reviews. Every write recomputes the
// reviewed business's rating in the same transaction.
type ReviewService struct {
	reviews  repository.ReviewRepository
	deals    repository.DealRepository
	tx       repository.Transactor
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	deals repository.DealRepository,
	tx repository.Transactor,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{reviews: reviews, deals: deals, tx: tx, producer: producer, logger: logger}
}

// ReviewInput holds the user-supplied fields of a review.
type ReviewInput struct {
	Rating  int
	Title   *string
	Comment string
}

// UpdateReviewInput holds the fields that may change on a review.
type UpdateReviewInput struct {
	Rating  *int
	Title   *string
	Comment *string
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}
	return nil
}

// Create reviews a deal on behalf of the caller. A second review of the
// same deal by the same user is a conflict.
func (s *ReviewService) Create(ctx context.Context, p *auth.Principal, dealID string, input ReviewInput) (*domain.Review, error) {
	if err := checkRating(input.Rating); err != nil {
		return nil, err
	}

	d, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &domain.Review{
		ID:         uuid.New().String(),
		DealID:     d.ID,
		BusinessID: d.BusinessID,
		UserID:     p.ID,
		Rating:     input.Rating,
		Title:      input.Title,
		Comment:    input.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.tx.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.Reviews.Create(ctx, r); err != nil {
			return err
		}
		return tx.Businesses.RefreshRating(ctx, r.BusinessID)
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, r); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", r.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", r.ID),
		slog.String("deal_id", r.DealID),
		slog.Int("rating", r.Rating),
	)
	return r, nil
}

// ListByDeal returns a page of reviews for a deal, newest first.
func (s *ReviewService) ListByDeal(ctx context.Context, dealID string, page pagination.Params) ([]domain.Review, int, error) {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByDeal(ctx, dealID, page)
}

// ListByUser returns a page of the reviews a user has written, newest first.
func (s *ReviewService) ListByUser(ctx context.Context, userID string, page pagination.Params) ([]domain.Review, int, error) {
	reviews, total, err := s.reviews.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list user reviews: %w", err)
	}
	return reviews, total, nil
}

// Stats returns the rating aggregate of a deal.
func (s *ReviewService) Stats(ctx context.Context, dealID string) (domain.ReviewStats, error) {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return domain.ReviewStats{}, err
	}
	counts, err := s.reviews.RatingCounts(ctx, dealID)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return domain.NewReviewStats(counts), nil
}

// Update changes the caller's own review.
func (s *ReviewService) Update(ctx context.Context, p *auth.Principal, id string, input UpdateReviewInput) (*domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, r.UserID, "review"); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := checkRating(*input.Rating); err != nil {
			return nil, err
		}
		r.Rating = *input.Rating
	}
	if input.Title != nil {
		r.Title = input.Title
	}
	if input.Comment != nil {
		r.Comment = *input.Comment
	}
	r.UpdatedAt = time.Now().UTC()

	err = s.tx.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.Reviews.Update(ctx, r); err != nil {
			return err
		}
		return tx.Businesses.RefreshRating(ctx, r.BusinessID)
	})
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logger.InfoContext(ctx, "review updated", slog.String("review_id", r.ID))
	return r, nil
}

// Delete removes the caller's own review.
func (s *ReviewService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(p, r.UserID, "review"); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.Reviews.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Businesses.RefreshRating(ctx, r.BusinessID)
	})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted", slog.String("review_id", id))
	return nil
}

// MarkHelpful increments a review's helpful count.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) (*domain.Review, error) {
	if err := s.reviews.IncrementHelpful(ctx, id); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, id)
}
