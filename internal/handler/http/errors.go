package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/pkg/httputil"
	"github.com/jenfranx30/savemate-backend/pkg/logger"
)

// unauthorizedMessage is sent for every token and principal rejection so
// clients cannot tell the causes apart.
const unauthorizedMessage = "could not validate credentials"

// writeServiceError renders an error returned by a service or the
// authenticator. Auth rejections are mapped here; everything else goes
// through the AppError mapping.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{Error: &httputil.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "incorrect email/username or password", RequestID: requestID,
		}})
		return

	case auth.IsAuthenticationError(err):
		l.DebugContext(r.Context(), "request not authenticated",
			slog.String("reason", auth.Reason(err)),
			slog.String("path", r.URL.Path),
		)
		w.Header().Set("WWW-Authenticate", "Bearer")
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{Error: &httputil.ErrorResponse{
			Code: "UNAUTHORIZED", Message: unauthorizedMessage, RequestID: requestID,
		}})
		return
	}

	var fe *auth.ForbiddenError
	if errors.As(err, &fe) {
		httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{Error: &httputil.ErrorResponse{
			Code: "FORBIDDEN", Message: fe.Message(), RequestID: requestID,
		}})
		return
	}

	var pe *auth.PolicyError
	if errors.As(err, &pe) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{Error: &httputil.ErrorResponse{
			Code:      "WEAK_PASSWORD",
			Message:   pe.Message,
			Fields:    map[string]string{"password": pe.Message},
			RequestID: requestID,
		}})
		return
	}

	httputil.WriteError(w, r, err, l)
}
