package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/event"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

func newBusinessFixture() (*BusinessService, *mockBusinessRepository, *recordingPublisher) {
	repo := new(mockBusinessRepository)
	pub := &recordingPublisher{}
	return NewBusinessService(repo, newTestProducer(pub), newTestLogger()), repo, pub
}

func sampleBusiness(ownerID string) *domain.Business {
	return &domain.Business{
		ID:       "biz-1",
		OwnerID:  ownerID,
		Name:     "Pierogarnia",
		Category: "restaurant",
		City:     "Warszawa",
		Status:   domain.BusinessStatusActive,
	}
}

func TestBusinessCreate_Success(t *testing.T) {
	svc, repo, pub := newBusinessFixture()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Business")).Return(nil)

	b, err := svc.Create(ctx, ownerPrincipal("owner-1"), CreateBusinessInput{
		Name:     "Pierogarnia",
		Category: "restaurant",
		Email:    "Hello@Pierogi.PL",
		City:     "Warszawa",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", b.OwnerID)
	assert.Equal(t, domain.BusinessStatusActive, b.Status)
	assert.Equal(t, "hello@pierogi.pl", b.Email)
	assert.Equal(t, []string{event.TopicBusinessCreated}, pub.topics)
}

func TestBusinessCreate_RequiresBusinessOwner(t *testing.T) {
	svc, repo, _ := newBusinessFixture()

	_, err := svc.Create(context.Background(), userPrincipal("user-1"), CreateBusinessInput{
		Name: "Pierogarnia", Category: "restaurant",
	})
	var fe *auth.ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "business owner access", fe.Capability)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBusinessCreate_UnknownCategory(t *testing.T) {
	svc, _, _ := newBusinessFixture()

	_, err := svc.Create(context.Background(), ownerPrincipal("owner-1"), CreateBusinessInput{
		Name: "Pierogarnia", Category: "spaceport",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestBusinessListMine_ScopesToCaller(t *testing.T) {
	svc, repo, _ := newBusinessFixture()
	ctx := context.Background()

	repo.On("List", ctx, mock.MatchedBy(func(f repository.BusinessFilter) bool {
		return f.OwnerID != nil && *f.OwnerID == "owner-1"
	})).Return([]domain.Business{*sampleBusiness("owner-1")}, 1, nil)

	got, total, err := svc.ListMine(ctx, ownerPrincipal("owner-1"), repository.BusinessFilter{Page: pagination.New(1, 20)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, total)
}

func TestBusinessUpdate(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		wantErr   error
	}{
		{"owner", ownerPrincipal("owner-1"), nil},
		{"other owner", ownerPrincipal("owner-2"), auth.ErrForbidden},
		{"admin is not owner", adminPrincipal("admin-1"), auth.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newBusinessFixture()
			ctx := context.Background()
			b := sampleBusiness("owner-1")

			repo.On("GetByID", ctx, "biz-1").Return(b, nil)
			repo.On("Update", ctx, b).Return(nil)

			got, err := svc.Update(ctx, tt.principal, "biz-1", UpdateBusinessInput{
				Name: strPtr("Pierogarnia Nowa"),
				City: strPtr("Kraków"),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Pierogarnia Nowa", got.Name)
			assert.Equal(t, "Kraków", got.City)
		})
	}
}

func TestBusinessDelete(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		wantErr   error
	}{
		{"owner", ownerPrincipal("owner-1"), nil},
		{"admin", adminPrincipal("admin-1"), nil},
		{"stranger", userPrincipal("user-9"), auth.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newBusinessFixture()
			ctx := context.Background()

			repo.On("GetByID", ctx, "biz-1").Return(sampleBusiness("owner-1"), nil)
			repo.On("Delete", ctx, "biz-1").Return(nil)

			err := svc.Delete(ctx, tt.principal, "biz-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertCalled(t, "Delete", ctx, "biz-1")
		})
	}
}

func TestBusinessDelete_NotFound(t *testing.T) {
	svc, repo, _ := newBusinessFixture()
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("business", "missing"))

	err := svc.Delete(ctx, ownerPrincipal("owner-1"), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
