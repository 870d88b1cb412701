package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jenfranx30/savemate-backend/pkg/logger"
)

type principalKey struct{}

// Authenticator resolves a raw bearer token to a principal of type P.
type Authenticator[P any] interface {
	Authenticate(ctx context.Context, token string) (P, error)
}

// ErrorWriter renders a rejected request.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header, or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate rejects requests whose bearer token does not resolve to a
// principal and stores the principal in the request context otherwise.
// An absent header is passed on as an empty token so the authenticator
// decides how to classify it. subject names the principal in request logs.
func Authenticate[P any](authn Authenticator[P], subject func(P) string, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := authn.Authenticate(r.Context(), BearerToken(r))
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, p)
			ctx = logger.WithUserID(ctx, subject(p))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the principal stored by Authenticate.
func PrincipalFromContext[P any](ctx context.Context) (P, bool) {
	p, ok := ctx.Value(principalKey{}).(P)
	return p, ok
}
