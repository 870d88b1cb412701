package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/event"
	"github.com/jenfranx30/savemate-backend/internal/service"
	"github.com/jenfranx30/savemate-backend/pkg/health"
	"github.com/jenfranx30/savemate-backend/pkg/httputil"
)

type testServer struct {
	handler    http.Handler
	users      *memUsers
	businesses *memBusinesses
	deals      *memDeals
	categories *memCategories
	reviews    *memReviews
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec, err := auth.NewTokenCodec(auth.Config{
		AccessSecret:  []byte("router-test-access-secret-0123456789"),
		RefreshSecret: []byte("router-test-refresh-secret-0123456789"),
		Algorithm:     "HS256",
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	sessions := auth.NewSessions(codec, 30*time.Minute, 7*24*time.Hour)

	users := newMemUsers()
	businesses := newMemBusinesses()
	deals := newMemDeals()
	categories := newMemCategories()
	reviews := newMemReviews()

	authn := auth.NewAuthenticator(sessions, users)
	producer := event.NewProducer(nil, logger)

	userSvc, err := service.NewUserService(users, auth.NewHasher(bcrypt.MinCost), sessions, authn, producer, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := NewRouter(ctx, Services{
		Authenticator: authn,
		Users:         userSvc,
		Businesses:    service.NewBusinessService(businesses, producer, logger),
		Deals:         service.NewDealService(deals, businesses, producer, logger),
		Reviews:       service.NewReviewService(reviews, deals, nil, producer, logger),
		Favorites:     service.NewFavoriteService(nil, deals, logger),
		Categories:    service.NewCategoryService(categories, nil, logger),
	}, health.NewHandler(), logger, RouterConfig{ServiceName: "savemate-test"})

	return &testServer{
		handler:    handler,
		users:      users,
		businesses: businesses,
		deals:      deals,
		categories: categories,
		reviews:    reviews,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage         `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type sessionBody struct {
	User   domain.User    `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

func (s *testServer) register(t *testing.T, email, username string, businessOwner bool) sessionBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":             email,
		"username":          username,
		"password":          "Abcdef12",
		"full_name":         "Test " + username,
		"is_business_owner": businessOwner,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sess sessionBody
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &sess))
	return sess
}

func (s *testServer) login(t *testing.T, identifier, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email_or_username": identifier,
		"password":          password,
	}, "")
}

func (s *testServer) seedDeal(t *testing.T, createdBy string) *domain.Deal {
	t.Helper()
	start := time.Now().UTC().Add(-time.Hour)
	d := &domain.Deal{
		ID:                 uuid.NewString(),
		BusinessID:         uuid.NewString(),
		CreatedBy:          createdBy,
		Title:              "Two coffees for one",
		Description:        "Bring a friend and pay for one coffee",
		OriginalPrice:      2400,
		DiscountedPrice:    1200,
		DiscountPercentage: 50,
		Category:           "food",
		City:               "Warszawa",
		Tags:               []string{},
		StartDate:          start,
		EndDate:            start.Add(72 * time.Hour),
		Status:             domain.DealStatusActive,
	}
	require.NoError(t, s.deals.Create(context.Background(), d))
	return d
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Equal(t, "could not validate credentials", env.Error.Message)
}

func assertForbidden(t *testing.T, rec *httptest.ResponseRecorder, message string) {
	t.Helper()
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
	assert.Equal(t, message, env.Error.Message)
}

// --- Scenarios ---

func TestScenario_UpdatingAnotherUsersDealIsForbidden(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "user1", false)
	u2 := s.register(t, "b@x.com", "user2", true)

	rec := s.login(t, "a@x.com", "Abcdef12")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sess sessionBody
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &sess))
	require.NotEmpty(t, sess.Tokens.AccessToken)
	require.NotEmpty(t, sess.Tokens.RefreshToken)

	deal := s.seedDeal(t, u2.User.ID)

	rec = s.do(t, http.MethodPut, "/api/v1/deals/"+deal.ID, map[string]string{"title": "Taken over deal"}, sess.Tokens.AccessToken)
	assertForbidden(t, rec, "not authorized: ownership of this deal required")

	stored, err := s.deals.GetByID(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Two coffees for one", stored.Title)

	// The owner can make the same change.
	rec = s.do(t, http.MethodPut, "/api/v1/deals/"+deal.ID, map[string]string{"title": "Taken over deal"}, u2.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestScenario_MissingAuthorizationHeader(t *testing.T) {
	s := newTestServer(t)
	deal := s.seedDeal(t, uuid.NewString())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/deals/mine"},
		{http.MethodDelete, "/api/v1/deals/" + deal.ID},
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodGet, "/api/v1/admin/users"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assertUnauthorized(t, s.do(t, tt.method, tt.path, nil, ""))
			})
		})
	}
}

func TestScenario_InactivePrincipalRejected(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "a@x.com", "user1", false)

	rec := s.do(t, http.MethodGet, "/api/v1/users/me", nil, u.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	s.users.set(u.User.ID, func(u *domain.User) { u.IsActive = false })

	assertUnauthorized(t, s.do(t, http.MethodGet, "/api/v1/users/me", nil, u.Tokens.AccessToken))

	rec = s.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": u.Tokens.RefreshToken}, "")
	assertUnauthorized(t, rec)
}

// --- Auth endpoints ---

func TestTokenKindsNotInterchangeable(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "a@x.com", "user1", false)

	assertUnauthorized(t, s.do(t, http.MethodGet, "/api/v1/users/me", nil, u.Tokens.RefreshToken))

	rec := s.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": u.Tokens.AccessToken}, "")
	assertUnauthorized(t, rec)
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "a@x.com", "user1", false)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": u.Tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &pair))
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(30*60), pair.ExpiresIn)

	rec = s.do(t, http.MethodGet, "/api/v1/users/me", nil, pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMalformedBearer(t *testing.T) {
	s := newTestServer(t)
	assertUnauthorized(t, s.do(t, http.MethodGet, "/api/v1/users/me", nil, "not-a-jwt"))
}

func TestLoginFailuresShareMessage(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "user1", false)

	wrongPassword := s.login(t, "user1", "Wrong1234")
	unknownUser := s.login(t, "ghost@x.com", "Abcdef12")

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "incorrect email/username or password", env.Error.Message)
	}
}

func TestLoginByUsername(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "user1", false)

	rec := s.login(t, "USER1", "Abcdef12")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegisterRejections(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "user1", false)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantErr  string
	}{
		{
			name:     "invalid email",
			body:     map[string]any{"email": "nope", "username": "user2", "password": "Abcdef12", "full_name": "Two"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "bad username characters",
			body:     map[string]any{"email": "c@x.com", "username": "u 2!", "password": "Abcdef12", "full_name": "Two"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "weak password",
			body:     map[string]any{"email": "c@x.com", "username": "user2", "password": "abcdefgh", "full_name": "Two"},
			wantCode: http.StatusBadRequest,
			wantErr:  "WEAK_PASSWORD",
		},
		{
			name:     "duplicate email",
			body:     map[string]any{"email": "A@x.com", "username": "user3", "password": "Abcdef12", "full_name": "Three"},
			wantCode: http.StatusConflict,
			wantErr:  "ALREADY_EXISTS",
		},
		{
			name:     "duplicate username",
			body:     map[string]any{"email": "d@x.com", "username": "USER1", "password": "Abcdef12", "full_name": "Four"},
			wantCode: http.StatusConflict,
			wantErr:  "ALREADY_EXISTS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/register", tt.body, "")
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			env := decode(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "a@x.com", "user1", false)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, u.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Gates ---

func TestAdminGate(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "a@x.com", "user1", false)

	rec := s.do(t, http.MethodGet, "/api/v1/admin/users", nil, u.Tokens.AccessToken)
	assertForbidden(t, rec, "not authorized: admin access required")

	// Roles are re-read per request, so the same token now passes.
	s.users.set(u.User.ID, func(u *domain.User) { u.IsAdmin = true })

	rec = s.do(t, http.MethodGet, "/api/v1/admin/users", nil, u.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminCannotDeactivateSelf(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "a@x.com", "user1", false)
	s.users.set(u.User.ID, func(u *domain.User) { u.IsAdmin = true })

	rec := s.do(t, http.MethodPatch, "/api/v1/admin/users/"+u.User.ID+"/status",
		map[string]bool{"is_active": false}, u.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestBusinessOwnerGate(t *testing.T) {
	s := newTestServer(t)
	shopper := s.register(t, "a@x.com", "user1", false)
	owner := s.register(t, "b@x.com", "user2", true)

	body := map[string]any{
		"name":     "Kawiarnia",
		"category": "cafe",
		"email":    "hello@kawiarnia.pl",
		"phone":    "+48 123 456 789",
		"address":  "ul. Prosta 1",
		"city":     "Warszawa",
	}

	rec := s.do(t, http.MethodPost, "/api/v1/businesses", body, shopper.Tokens.AccessToken)
	assertForbidden(t, rec, "not authorized: business owner access required")

	rec = s.do(t, http.MethodPost, "/api/v1/businesses", body, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var b domain.Business
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &b))
	assert.Equal(t, owner.User.ID, b.OwnerID)
	assert.Equal(t, domain.BusinessStatusActive, b.Status)
}

func TestDealCreateRequiresOwnedBusiness(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "b@x.com", "user2", true)
	rival := s.register(t, "c@x.com", "user3", true)

	biz := &domain.Business{ID: uuid.NewString(), OwnerID: owner.User.ID, Name: "Kawiarnia", City: "Gdańsk"}
	require.NoError(t, s.businesses.Create(context.Background(), biz))

	start := time.Now().UTC()
	body := map[string]any{
		"business_id":      biz.ID,
		"title":            "Morning espresso deal",
		"description":      "Espresso for half price before 10am",
		"original_price":   1000,
		"discounted_price": 500,
		"category":         "food",
		"start_date":       start,
		"end_date":         start.Add(48 * time.Hour),
	}

	rec := s.do(t, http.MethodPost, "/api/v1/deals", body, rival.Tokens.AccessToken)
	assertForbidden(t, rec, "not authorized: ownership of this business required")

	rec = s.do(t, http.MethodPost, "/api/v1/deals", body, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var d domain.Deal
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &d))
	assert.Equal(t, 50.0, d.DiscountPercentage)
	assert.Equal(t, "Gdańsk", d.City)
}

// --- Public routes ---

func TestGetDealIsPublicAndCountsView(t *testing.T) {
	s := newTestServer(t)
	deal := s.seedDeal(t, uuid.NewString())

	rec := s.do(t, http.MethodGet, "/api/v1/deals/"+deal.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var d domain.Deal
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &d))
	assert.Equal(t, 1, d.ViewsCount)
}

func TestInvalidUUIDParam(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/deals/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategories(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "a@x.com", "admin", false)
	s.users.set(admin.User.ID, func(u *domain.User) { u.IsAdmin = true })

	rec := s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Food & Drink"}, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/categories/food-and-drink", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var c domain.Category
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &c))
	assert.Equal(t, domain.DefaultCategoryColor, c.Color)

	rec = s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Beauty", "color": "blue"}, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Category
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	assert.Len(t, list, 1)
}

func TestDealListRejectsMalformedBusinessID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/deals?business_id=abc", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	assert.Equal(t, "business_id must be a UUID", env.Error.Message)

	rec = s.do(t, http.MethodGet, "/api/v1/deals?business_id="+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCategoryFeaturedStatsAndLookup(t *testing.T) {
	s := newTestServer(t)
	parentID := uuid.NewString()
	s.categories.put(domain.Category{ID: parentID, Name: "Food", Slug: "food", IsActive: true, IsFeatured: true, DealsCount: 4})
	s.categories.put(domain.Category{ID: uuid.NewString(), Name: "Pizza", Slug: "pizza", ParentID: &parentID, IsActive: true, DealsCount: 2})
	s.categories.put(domain.Category{ID: uuid.NewString(), Name: "Beauty", Slug: "beauty", IsActive: true})

	t.Run("featured", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/categories/featured", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var list []domain.Category
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
		require.Len(t, list, 1)
		assert.Equal(t, "food", list[0].Slug)
	})

	t.Run("stats overview", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/categories/stats/overview", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var stats domain.CategoryStats
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
		assert.Equal(t, 3, stats.TotalCategories)
		assert.Equal(t, 1, stats.FeaturedCategories)
		assert.Equal(t, 6, stats.TotalDeals)
		assert.Len(t, stats.TopCategories, 3)
	})

	t.Run("by slug carries subcategories", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/categories/food", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var detail domain.CategoryDetail
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &detail))
		assert.Equal(t, parentID, detail.ID)
		require.Len(t, detail.Subcategories, 1)
		assert.Equal(t, "pizza", detail.Subcategories[0].Slug)
	})

	t.Run("by id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/categories/"+parentID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var c domain.Category
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &c))
		assert.Equal(t, "food", c.Slug)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/categories/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCategoryDeleteWithDealsRejected(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "a@x.com", "admin", false)
	s.users.set(admin.User.ID, func(u *domain.User) { u.IsAdmin = true })
	id := uuid.NewString()
	s.categories.put(domain.Category{ID: id, Name: "Food", Slug: "food", IsActive: true, DealsCount: 1})

	rec := s.do(t, http.MethodDelete, "/api/v1/categories/"+id, nil, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/categories/food", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReviewsByUser(t *testing.T) {
	s := newTestServer(t)
	author := s.register(t, "a@x.com", "user1", false)
	other := s.register(t, "b@x.com", "user2", false)
	deal := s.seedDeal(t, uuid.NewString())
	ctx := context.Background()
	for _, userID := range []string{author.User.ID, author.User.ID, other.User.ID} {
		require.NoError(t, s.reviews.Create(ctx, &domain.Review{
			ID: uuid.NewString(), DealID: deal.ID, BusinessID: deal.BusinessID,
			UserID: userID, Rating: 4, Comment: "Worth every grosz",
		}))
	}

	type page struct {
		Data       []domain.Review `json:"data"`
		TotalCount int             `json:"total_count"`
	}

	t.Run("public by user id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reviews/user/"+author.User.ID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 2, got.TotalCount)
		for _, r := range got.Data {
			assert.Equal(t, author.User.ID, r.UserID)
		}
	})

	t.Run("malformed user id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reviews/user/not-a-uuid", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("mine requires auth", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reviews/user/me/reviews", nil, "")
		assertUnauthorized(t, rec)
	})

	t.Run("mine", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reviews/user/me/reviews", nil, other.Tokens.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Data, 1)
		assert.Equal(t, other.User.ID, got.Data[0].UserID)
	})
}

func TestHealthLive(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeEnforced(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
