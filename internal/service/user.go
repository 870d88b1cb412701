package service

import (
	"context"
	"errors"
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

// UserService implements registration, login and account management.
type UserService struct {
	users         repository.UserRepository
	hasher        *auth.Hasher
	sessions      *auth.Sessions
	authenticator *auth.Authenticator
	producer      *event.Producer
	logger        *slog.Logger

	// dummyHash is verified against when a login identifier is unknown so
	// that unknown users and wrong passwords take the same time.
	dummyHash string
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	hasher *auth.Hasher,
	sessions *auth.Sessions,
	authenticator *auth.Authenticator,
	producer *event.Producer,
	logger *slog.Logger,
) (*UserService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare login hash: %w", err)
	}
	return &UserService{
		users:         users,
		hasher:        hasher,
		sessions:      sessions,
		authenticator: authenticator,
		producer:      producer,
		logger:        logger,
		dummyHash:     dummy,
	}, nil
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	FullName        string
	IsBusinessOwner bool
}

// LoginInput holds the parameters for user login. Identifier is an email
// address or a username.
type LoginInput struct {
	Identifier string
	Password   string
}

// UpdateProfileInput holds the profile fields a user may change.
type UpdateProfileInput struct {
	FullName *string
}

// Session is the result of a successful register or login.
type Session struct {
	User   *domain.User   `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

// Register creates an account and signs the new user in.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := auth.CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:              uuid.New().String(),
		Email:           domain.NormalizeEmail(input.Email),
		Username:        domain.NormalizeUsername(input.Username),
		PasswordHash:    hash,
		FullName:        input.FullName,
		IsActive:        true,
		IsBusinessOwner: input.IsBusinessOwner,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.sessions.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.Bool("business_owner", user.IsBusinessOwner),
	)
	return &Session{User: user, Tokens: tokens}, nil
}

// Login verifies credentials and issues a token pair. Unknown identifiers
// and wrong passwords both yield auth.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	var (
		user *domain.User
		err  error
	)
	if domain.IsEmailIdentifier(input.Identifier) {
		user, err = s.users.GetByEmail(ctx, domain.NormalizeEmail(input.Identifier))
	} else {
		user, err = s.users.GetByUsername(ctx, domain.NormalizeUsername(input.Identifier))
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(input.Password, s.dummyHash)
		auth.RecordRejection(auth.ErrInvalidCredentials)
		return nil, auth.ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		auth.RecordRejection(auth.ErrInvalidCredentials)
		return nil, auth.ErrInvalidCredentials
	}
	if !user.IsActive {
		auth.RecordRejection(auth.ErrPrincipalInactive)
		return nil, auth.ErrPrincipalInactive
	}

	tokens, err := s.sessions.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return &Session{User: user, Tokens: tokens}, nil
}

// Refresh rotates a refresh token into a new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	return s.authenticator.Refresh(ctx, refreshToken)
}

// GetByID returns the user with id.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return apperrors.InvalidInput("current password is incorrect")
	}
	if current == next {
		return apperrors.InvalidInput("new password must differ from the current password")
	}
	if err := auth.CheckPasswordPolicy(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID))
	return nil
}

// ListUsers returns a page of all users.
func (s *UserService) ListUsers(ctx context.Context, page pagination.Params) ([]domain.User, int, error) {
	return s.users.List(ctx, page)
}

// UpdateStatus lets an administrator change another user's flags.
// Administrators cannot deactivate or demote themselves.
func (s *UserService) UpdateStatus(ctx context.Context, actorID, targetID string, update domain.UserStatusUpdate) (*domain.User, error) {
	if actorID == targetID {
		if (update.IsActive != nil && !*update.IsActive) || (update.IsAdmin != nil && !*update.IsAdmin) {
			return nil, apperrors.InvalidInput("administrators cannot deactivate or demote themselves")
		}
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	update.Apply(user)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}

	s.logger.InfoContext(ctx, "user status updated",
		slog.String("actor_id", actorID),
		slog.String("user_id", targetID),
		slog.Bool("is_active", user.IsActive),
		slog.Bool("is_business_owner", user.IsBusinessOwner),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return user, nil
}

// GrantAdmin marks the user with email as an administrator.
func (s *UserService) GrantAdmin(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return user, nil
	}

	user.IsAdmin = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("grant admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin granted", slog.String("user_id", user.ID))
	return user, nil
}

// ListAdmins returns all administrators.
func (s *UserService) ListAdmins(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAdmins(ctx)
}
