package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
)

// Principal is the identity a verified token resolves to. The flags are
// always loaded from the user store, never from the token.
type Principal struct {
	ID              string `json:"id"`
	IsActive        bool   `json:"is_active"`
	IsBusinessOwner bool   `json:"is_business_owner"`
	IsAdmin         bool   `json:"is_admin"`
}

// PrincipalStore loads a principal by user ID. A missing user is reported
// as an error matching apperrors.ErrNotFound.
type PrincipalStore interface {
	FindPrincipal(ctx context.Context, id string) (*Principal, error)
}

// Authenticator resolves bearer tokens to active principals.
type Authenticator struct {
	sessions *Sessions
	store    PrincipalStore
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(sessions *Sessions, store PrincipalStore) *Authenticator {
	return &Authenticator{sessions: sessions, store: store}
}

// Authenticate verifies bearer as an access token and loads its principal.
// Checks run in order (signature, expiry, kind, subject, lookup, active) and
// stop at the first failure.
func (a *Authenticator) Authenticate(ctx context.Context, bearer string) (*Principal, error) {
	claims, err := a.sessions.codec.Verify(bearer, KindAccess)
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	p, err := a.resolve(ctx, claims.Subject)
	if err != nil {
		recordRejection(err)
		return nil, err
	}
	return p, nil
}

// Refresh rotates a refresh token into a new pair, provided its subject
// still exists and is active.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	pair, err := a.sessions.Refresh(refreshToken, func(subject string) error {
		_, err := a.resolve(ctx, subject)
		return err
	})
	if err != nil {
		recordRejection(err)
		return TokenPair{}, err
	}
	return pair, nil
}

func (a *Authenticator) resolve(ctx context.Context, subject string) (*Principal, error) {
	p, err := a.store.FindPrincipal(ctx, subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}
	if !p.IsActive {
		return nil, ErrPrincipalInactive
	}
	return p, nil
}
