package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/event"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	pkgkafka "github.com/jenfranx30/savemate-backend/pkg/kafka"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context, page pagination.Params) ([]domain.User, int, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *mockUserRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) FindPrincipal(ctx context.Context, id string) (*auth.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

// --- Mock Business Repository ---

type mockBusinessRepository struct {
	mock.Mock
}

func (m *mockBusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBusinessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepository) List(ctx context.Context, filter repository.BusinessFilter) ([]domain.Business, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Business), args.Int(1), args.Error(2)
}

func (m *mockBusinessRepository) Update(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBusinessRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBusinessRepository) RefreshRating(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Deal Repository ---

type mockDealRepository struct {
	mock.Mock
}

func (m *mockDealRepository) Create(ctx context.Context, d *domain.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *mockDealRepository) List(ctx context.Context, filter repository.DealFilter) ([]domain.Deal, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Deal), args.Int(1), args.Error(2)
}

func (m *mockDealRepository) Update(ctx context.Context, d *domain.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDealRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDealRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByDeal(ctx context.Context, dealID string, page pagination.Params) ([]domain.Review, int, error) {
	args := m.Called(ctx, dealID, page)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListByUser(ctx context.Context, userID string, page pagination.Params) ([]domain.Review, int, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) Update(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) IncrementHelpful(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) RatingCounts(ctx context.Context, dealID string) (map[int]int, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

// --- Mock Favorite Repository ---

type mockFavoriteRepository struct {
	mock.Mock
}

func (m *mockFavoriteRepository) Add(ctx context.Context, userID, dealID string) error {
	args := m.Called(ctx, userID, dealID)
	return args.Error(0)
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID, dealID string) error {
	args := m.Called(ctx, userID, dealID)
	return args.Error(0)
}

func (m *mockFavoriteRepository) Exists(ctx context.Context, userID, dealID string) (bool, error) {
	args := m.Called(ctx, userID, dealID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFavoriteRepository) ListDeals(ctx context.Context, userID string, page pagination.Params) ([]domain.Deal, int, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]domain.Deal), args.Int(1), args.Error(2)
}

// --- Mock Category Repository and Cache ---

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCategoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) Stats(ctx context.Context, top int) (*domain.CategoryStats, error) {
	args := m.Called(ctx, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryStats), args.Error(1)
}

type mockCategoryCache struct {
	mock.Mock
}

func (m *mockCategoryCache) Get(ctx context.Context) ([]domain.Category, bool, error) {
	args := m.Called(ctx)
	var categories []domain.Category
	if v := args.Get(0); v != nil {
		categories = v.([]domain.Category)
	}
	return categories, args.Bool(1), args.Error(2)
}

func (m *mockCategoryCache) Set(ctx context.Context, categories []domain.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *mockCategoryCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Fake Transactor ---

// fakeTransactor runs fn against the mocks directly and records whether fn
// succeeded, standing in for commit and rollback.
type fakeTransactor struct {
	reviews    *mockReviewRepository
	businesses *mockBusinessRepository
	calls      int
	committed  int
}

func (f *fakeTransactor) WithinTx(_ context.Context, fn func(tx repository.Tx) error) error {
	f.calls++
	if err := fn(repository.Tx{Reviews: f.reviews, Businesses: f.businesses}); err != nil {
		return err
	}
	f.committed++
	return nil
}

// --- Recording Publisher ---

type recordingPublisher struct {
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ *pkgkafka.Event) error {
	p.topics = append(p.topics, topic)
	return p.err
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer(pub pkgkafka.Publisher) *event.Producer {
	return event.NewProducer(pub, newTestLogger())
}

func newTestSessions(t *testing.T) *auth.Sessions {
	t.Helper()
	cfg := auth.Config{
		AccessSecret:  []byte("test-access-secret-0123456789abcdef"),
		RefreshSecret: []byte("test-refresh-secret-0123456789abcdef"),
		Algorithm:     "HS256",
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
	codec, err := auth.NewTokenCodec(cfg)
	require.NoError(t, err)
	return auth.NewSessions(codec, cfg.AccessTTL, cfg.RefreshTTL)
}

func newTestHasher() *auth.Hasher {
	return auth.NewHasher(bcrypt.MinCost)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func ownerPrincipal(id string) *auth.Principal {
	return &auth.Principal{ID: id, IsActive: true, IsBusinessOwner: true}
}

func userPrincipal(id string) *auth.Principal {
	return &auth.Principal{ID: id, IsActive: true}
}

func adminPrincipal(id string) *auth.Principal {
	return &auth.Principal{ID: id, IsActive: true, IsAdmin: true}
}
