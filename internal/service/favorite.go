package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// FavoriteService manages the deals a user has saved.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	deals     repository.DealRepository
	logger    *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, deals repository.DealRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, deals: deals, logger: logger}
}

// Add saves a deal for the user. Saving the same deal twice is a conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, dealID string) error {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return err
	}
	if err := s.favorites.Add(ctx, userID, dealID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "deal saved",
		slog.String("user_id", userID),
		slog.String("deal_id", dealID),
	)
	return nil
}

// Remove unsaves a deal for the user.
func (s *FavoriteService) Remove(ctx context.Context, userID, dealID string) error {
	if err := s.favorites.Remove(ctx, userID, dealID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// IsFavorited reports whether the user saved the deal.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, dealID string) (bool, error) {
	return s.favorites.Exists(ctx, userID, dealID)
}

// List returns a page of the user's saved deals.
func (s *FavoriteService) List(ctx context.Context, userID string, page pagination.Params) ([]domain.Deal, int, error) {
	return s.favorites.ListDeals(ctx, userID, page)
}
