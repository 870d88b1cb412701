package auth

import (
	"fmt"
	"time"
)

// TokenPair is an access token and a refresh token minted together.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Sessions mints token pairs. It keeps no state beyond its configuration.
type Sessions struct {
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSessions binds codec to the configured lifetimes.
func NewSessions(codec *TokenCodec, accessTTL, refreshTTL time.Duration) *Sessions {
	return &Sessions{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Codec returns the underlying token codec.
func (s *Sessions) Codec() *TokenCodec {
	return s.codec
}

// IssuePair mints an access and a refresh token for subject. Both expiries
// derive from a single clock read.
func (s *Sessions) IssuePair(subject string) (TokenPair, error) {
	now := s.codec.now()

	access, err := s.codec.issueAt(subject, KindAccess, s.accessTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.issueAt(subject, KindRefresh, s.refreshTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		ExpiresAt:    now.Add(s.accessTTL).UTC(),
	}, nil
}

// Refresh verifies refreshToken and mints a new pair for its subject. When
// admit is non-nil it runs on the verified subject first and can veto the
// rotation. The presented refresh token stays valid until it expires on its
// own since nothing is stored server-side.
func (s *Sessions) Refresh(refreshToken string, admit func(subject string) error) (TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if admit != nil {
		if err := admit(claims.Subject); err != nil {
			return TokenPair{}, err
		}
	}
	return s.IssuePair(claims.Subject)
}
