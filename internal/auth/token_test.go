package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-for-tests-0123456789abcdef"
	testRefreshSecret = "refresh-secret-for-tests-0123456789abcdef"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testRefreshSecret),
		Algorithm:     "HS256",
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		BcryptCost:    4,
		Issuer:        "savemate",
	}
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T, cfg Config) (*TokenCodec, *clock) {
	t.Helper()
	clk := &clock{t: testNow}
	codec, err := NewTokenCodec(cfg, WithClock(clk.Now))
	require.NoError(t, err)
	return codec, clk
}

func signRaw(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "missing access secret", mutate: func(c *Config) { c.AccessSecret = nil }},
		{name: "missing refresh secret", mutate: func(c *Config) { c.RefreshSecret = nil }},
		{name: "rsa algorithm", mutate: func(c *Config) { c.Algorithm = "RS256" }},
		{name: "none algorithm", mutate: func(c *Config) { c.Algorithm = "none" }},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTTL = 0 }},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.RefreshTTL = -time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			cfg := testConfig()
			cfg.Algorithm = alg
			codec, clk := newTestCodec(t, cfg)

			token, err := codec.Issue("user-1", KindAccess, time.Minute)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)

			claims, err := codec.Verify(token, KindAccess)
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.Subject)
			assert.Equal(t, KindAccess, claims.Type)
			assert.Equal(t, "savemate", claims.Issuer)
			assert.NotEmpty(t, claims.ID)
			assert.Equal(t, testNow.Add(time.Minute).Unix(), claims.ExpiresAt.Unix())

			clk.Advance(59 * time.Second)
			_, err = codec.Verify(token, KindAccess)
			assert.NoError(t, err)
		})
	}
}

func TestTokenCodec_ClaimsWireFormat(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	token, err := codec.Issue("user-1", KindRefresh, time.Hour)
	require.NoError(t, err)

	var raw jwt.MapClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", raw["sub"])
	assert.Equal(t, "refresh", raw["type"])
	assert.EqualValues(t, testNow.Add(time.Hour).Unix(), raw["exp"])
}

func TestTokenCodec_WrongKind(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	refresh, err := codec.Issue("user-1", KindRefresh, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)

	access, err := codec.Issue("user-1", KindAccess, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(access, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestTokenCodec_WrongKindWithSharedSecret(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	codec, _ := newTestCodec(t, cfg)

	refresh, err := codec.Issue("user-1", KindRefresh, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec, clk := newTestCodec(t, testConfig())

	token, err := codec.Issue("user-1", KindAccess, time.Minute)
	require.NoError(t, err)

	clk.Advance(time.Minute)
	_, err = codec.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrExpired, "exp equal to now is expired")

	clk.Advance(time.Hour)
	_, err = codec.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTokenCodec_ExpiredBeatsWrongKind(t *testing.T) {
	codec, clk := newTestCodec(t, testConfig())

	refresh, err := codec.Issue("user-1", KindRefresh, time.Minute)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	_, err = codec.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTokenCodec_ForeignSecretIsMalformed(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	foreignCfg := testConfig()
	foreignCfg.AccessSecret = []byte("some-other-access-secret-0123456789abcd")
	foreignCfg.RefreshSecret = []byte("some-other-refresh-secret-0123456789abc")
	foreign, _ := newTestCodec(t, foreignCfg)

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		token, err := foreign.Issue("user-1", kind, time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(token, kind)
		assert.ErrorIs(t, err, ErrMalformed, kind)
	}

	// Claims do not matter once the signature fails, even if they are expired.
	expired := signRaw(t, "unrelated-secret", Claims{
		Type: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(-time.Hour)),
		},
	})
	_, err := codec.Verify(expired, KindAccess)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTokenCodec_MalformedInputs(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	valid, err := codec.Issue("user-1", KindAccess, time.Hour)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")

	noneToken := signNone(t)

	tests := map[string]string{
		"empty":              "",
		"garbage":            "not-a-token",
		"two segments":       parts[0] + "." + parts[1],
		"tampered payload":   parts[0] + "." + parts[1] + "x." + parts[2],
		"tampered signature": parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2])),
		"alg none":           noneToken,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(token, KindAccess)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func signNone(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Type: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return s
}

func TestTokenCodec_MissingExpiryIsMalformed(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	token := signRaw(t, testAccessSecret, Claims{
		Type:             KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	_, err := codec.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTokenCodec_MissingSubject(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	token := signRaw(t, testAccessSecret, Claims{
		Type: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	})
	_, err := codec.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = codec.Issue("", KindAccess, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestTokenCodec_MissingTypeIsWrongKind(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	token := signRaw(t, testAccessSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	})
	_, err := codec.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestTokenCodec_UnknownKind(t *testing.T) {
	codec, _ := newTestCodec(t, testConfig())

	_, err := codec.Issue("user-1", Kind("admin"), time.Hour)
	assert.Error(t, err)

	token, err := codec.Issue("user-1", KindAccess, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(token, Kind("admin"))
	assert.Error(t, err)
	assert.False(t, IsAuthenticationError(err))
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{ErrMalformed, "malformed"},
		{errors.Join(ErrMalformed, errors.New("detail")), "malformed"},
		{ErrExpired, "expired"},
		{ErrWrongKind, "wrong_kind"},
		{ErrMissingSubject, "missing_subject"},
		{ErrPrincipalNotFound, "principal_not_found"},
		{ErrPrincipalInactive, "principal_inactive"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{forbidden("admin access"), "forbidden"},
		{errors.New("db down"), "internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Reason(tt.err))
	}
}

func TestIsAuthenticationError(t *testing.T) {
	for _, err := range []error{
		ErrMalformed, ErrExpired, ErrWrongKind, ErrMissingSubject,
		ErrPrincipalNotFound, ErrPrincipalInactive, ErrInvalidCredentials,
	} {
		assert.True(t, IsAuthenticationError(err), err)
	}
	assert.False(t, IsAuthenticationError(forbidden("admin access")))
	assert.False(t, IsAuthenticationError(errors.New("boom")))
}
