package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/pkg/middleware"
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if r.ContentLength != 0 && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the bearer token into an *auth.Principal and stores
// it in the request context.
func requireAuth(authn *auth.Authenticator, l *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Authenticate[*auth.Principal](
		authn,
		func(p *auth.Principal) string { return p.ID },
		func(w http.ResponseWriter, r *http.Request, err error) {
			writeServiceError(w, r, err, l)
		},
	)
}

// requireGate rejects requests whose principal fails gate. It must run after
// requireAuth.
func requireGate(gate auth.Gate, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := middleware.PrincipalFromContext[*auth.Principal](r.Context())
			if err := gate(p); err != nil {
				auth.RecordRejection(err)
				writeServiceError(w, r, err, l)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// principalFrom returns the principal stored by requireAuth.
func principalFrom(r *http.Request) *auth.Principal {
	p, _ := middleware.PrincipalFromContext[*auth.Principal](r.Context())
	return p
}
