package http

import (
	"context"
	"sync"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// memUsers is an in-memory repository.UserRepository and auth.PrincipalStore.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*domain.User)}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		if existing.Username == u.Username {
			return apperrors.AlreadyExists("user", "username", u.Username)
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) find(match func(*domain.User) bool, key string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user", key)
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id }, id)
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email }, email)
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username }, username)
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return apperrors.NotFound("user", u.ID)
	}
	hash := existing.PasswordHash
	cp := *u
	cp.PasswordHash = hash
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.NotFound("user", id)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memUsers) List(_ context.Context, _ pagination.Params) ([]domain.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memUsers) ListAdmins(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.IsAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) FindPrincipal(ctx context.Context, id string) (*auth.Principal, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &auth.Principal{ID: u.ID, IsActive: u.IsActive, IsBusinessOwner: u.IsBusinessOwner, IsAdmin: u.IsAdmin}, nil
}

// set overwrites stored flags for a user, standing in for an admin action.
func (m *memUsers) set(id string, fn func(u *domain.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.users[id])
}

// memBusinesses is an in-memory repository.BusinessRepository.
type memBusinesses struct {
	mu         sync.Mutex
	businesses map[string]*domain.Business
}

func newMemBusinesses() *memBusinesses {
	return &memBusinesses{businesses: make(map[string]*domain.Business)}
}

func (m *memBusinesses) Create(_ context.Context, b *domain.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.businesses[b.ID] = &cp
	return nil
}

func (m *memBusinesses) GetByID(_ context.Context, id string) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, apperrors.NotFound("business", id)
	}
	cp := *b
	return &cp, nil
}

func (m *memBusinesses) List(_ context.Context, filter repository.BusinessFilter) ([]domain.Business, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Business
	for _, b := range m.businesses {
		if filter.OwnerID != nil && b.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (m *memBusinesses) Update(_ context.Context, b *domain.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.businesses[b.ID] = &cp
	return nil
}

func (m *memBusinesses) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.businesses, id)
	return nil
}

func (m *memBusinesses) RefreshRating(context.Context, string) error { return nil }

// memDeals is an in-memory repository.DealRepository.
type memDeals struct {
	mu    sync.Mutex
	deals map[string]*domain.Deal
}

func newMemDeals() *memDeals {
	return &memDeals{deals: make(map[string]*domain.Deal)}
}

func (m *memDeals) Create(_ context.Context, d *domain.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.deals[d.ID] = &cp
	return nil
}

func (m *memDeals) GetByID(_ context.Context, id string) (*domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deals[id]
	if !ok {
		return nil, apperrors.NotFound("deal", id)
	}
	cp := *d
	return &cp, nil
}

func (m *memDeals) List(_ context.Context, filter repository.DealFilter) ([]domain.Deal, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Deal
	for _, d := range m.deals {
		if filter.CreatedBy != nil && d.CreatedBy != *filter.CreatedBy {
			continue
		}
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (m *memDeals) Update(_ context.Context, d *domain.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.deals[d.ID] = &cp
	return nil
}

func (m *memDeals) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deals, id)
	return nil
}

func (m *memDeals) IncrementViews(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.deals[id]; ok {
		d.ViewsCount++
	}
	return nil
}

// memCategories is an in-memory repository.CategoryRepository.
type memCategories struct {
	mu         sync.Mutex
	categories map[string]*domain.Category
}

func newMemCategories() *memCategories {
	return &memCategories{categories: make(map[string]*domain.Category)}
}

func (m *memCategories) Create(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Slug == c.Slug {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("category", slug)
}

func (m *memCategories) Update(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return apperrors.NotFound("category", id)
	}
	delete(m.categories, id)
	return nil
}

func (m *memCategories) ListActive(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, c := range m.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCategories) ListChildren(_ context.Context, parentID string) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, c := range m.categories {
		if c.IsActive && c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCategories) Stats(_ context.Context, top int) (*domain.CategoryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.CategoryStats{TopCategories: []domain.Category{}}
	for _, c := range m.categories {
		stats.TotalCategories++
		if !c.IsActive {
			continue
		}
		stats.ActiveCategories++
		stats.TotalDeals += c.DealsCount
		if c.IsFeatured {
			stats.FeaturedCategories++
		}
		if len(stats.TopCategories) < top {
			stats.TopCategories = append(stats.TopCategories, *c)
		}
	}
	return stats, nil
}

func (m *memCategories) put(c domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = &c
}

// memReviews is an in-memory repository.ReviewRepository.
type memReviews struct {
	mu      sync.Mutex
	reviews map[string]*domain.Review
}

func newMemReviews() *memReviews {
	return &memReviews{reviews: make(map[string]*domain.Review)}
}

func (m *memReviews) Create(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memReviews) GetByID(_ context.Context, id string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	cp := *r
	return &cp, nil
}

func (m *memReviews) listWhere(match func(*domain.Review) bool) ([]domain.Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Review{}
	for _, r := range m.reviews {
		if match(r) {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (m *memReviews) ListByDeal(_ context.Context, dealID string, _ pagination.Params) ([]domain.Review, int, error) {
	return m.listWhere(func(r *domain.Review) bool { return r.DealID == dealID })
}

func (m *memReviews) ListByUser(_ context.Context, userID string, _ pagination.Params) ([]domain.Review, int, error) {
	return m.listWhere(func(r *domain.Review) bool { return r.UserID == userID })
}

func (m *memReviews) Update(ctx context.Context, r *domain.Review) error {
	return m.Create(ctx, r)
}

func (m *memReviews) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reviews, id)
	return nil
}

func (m *memReviews) IncrementHelpful(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return apperrors.NotFound("review", id)
	}
	r.HelpfulCount++
	return nil
}

func (m *memReviews) RatingCounts(_ context.Context, dealID string) (map[int]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int]int)
	for _, r := range m.reviews {
		if r.DealID == dealID {
			counts[r.Rating]++
		}
	}
	return counts, nil
}
