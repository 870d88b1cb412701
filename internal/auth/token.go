// Package auth implements credential hashing, typed JWT issuance and
// verification, bearer-token authentication and capability gates.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates access tokens from refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

func (k Kind) valid() bool {
	return k == KindAccess || k == KindRefresh
}

func (k Kind) other() Kind {
	if k == KindAccess {
		return KindRefresh
	}
	return KindAccess
}

// Claims is the payload of every token. Only identity travels in a token;
// capability flags are read from the principal record on each request.
type Claims struct {
	Type Kind `json:"type"`
	jwt.RegisteredClaims
}

// Config is the immutable identity configuration loaded once at startup.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	// Algorithm is one of HS256, HS384, HS512.
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
	Issuer     string
}

var signingMethods = map[string]*jwt.SigningMethodHMAC{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// Validate checks the configuration before any codec is built from it.
func (c Config) Validate() error {
	if len(c.AccessSecret) == 0 || len(c.RefreshSecret) == 0 {
		return errors.New("auth: access and refresh secrets are required")
	}
	if _, ok := signingMethods[c.Algorithm]; !ok {
		return fmt.Errorf("auth: unsupported signing algorithm %q", c.Algorithm)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("auth: token lifetimes must be positive")
	}
	return nil
}

// TokenCodec signs and verifies typed tokens. Each kind has its own secret.
type TokenCodec struct {
	method    *jwt.SigningMethodHMAC
	secrets   map[Kind][]byte
	issuer    string
	now       func() time.Time
	validator *jwt.Validator
}

// Option customizes a TokenCodec.
type Option func(*TokenCodec)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec from cfg.
func NewTokenCodec(cfg Config, opts ...Option) (*TokenCodec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &TokenCodec{
		method: signingMethods[cfg.Algorithm],
		secrets: map[Kind][]byte{
			KindAccess:  cfg.AccessSecret,
			KindRefresh: cfg.RefreshSecret,
		},
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.validator = jwt.NewValidator(jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	return c, nil
}

// Issue signs a token of kind for subject that expires ttl from now.
func (c *TokenCodec) Issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	return c.issueAt(subject, kind, ttl, c.now())
}

func (c *TokenCodec) issueAt(subject string, kind Kind, ttl time.Duration, now time.Time) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}
	if !kind.valid() {
		return "", fmt.Errorf("issue token: unknown kind %q", kind)
	}

	claims := Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secrets[kind])
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks token as a token of kind expected. The signature is checked
// before any claim is trusted. Failures are ErrMalformed, ErrExpired,
// ErrWrongKind or ErrMissingSubject, in that order of precedence.
func (c *TokenCodec) Verify(token string, expected Kind) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformed
	}
	if !expected.valid() {
		return nil, fmt.Errorf("verify token: unknown kind %q", expected)
	}

	claims, err := c.parse(token, expected)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, classify(err)
		}
		// A token of the other kind carries the other kind's signature. Only
		// once that signature holds are its claims allowed to pick the error.
		other, otherErr := c.parse(token, expected.other())
		if otherErr != nil {
			return nil, classify(err)
		}
		if err := c.validator.Validate(other); err != nil {
			return nil, classify(err)
		}
		return nil, ErrWrongKind
	}

	if err := c.validator.Validate(claims); err != nil {
		return nil, classify(err)
	}
	if claims.Type != expected {
		return nil, ErrWrongKind
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// parse checks only the signature of token against the secret of kind.
// Claims are validated separately so that no claim is judged before the
// signature holds.
func (c *TokenCodec) parse(token string, kind Kind) (*Claims, error) {
	secret := c.secrets[kind]
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// classify maps a jwt error onto a rejection sentinel without leaking the
// library error type across the package boundary.
func classify(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpired
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
