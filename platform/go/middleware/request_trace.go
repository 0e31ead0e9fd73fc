package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformlogging "github.com/freshfleet/backoffice/platform/go/logging"
	"github.com/freshfleet/backoffice/platform/go/requesttrace"
)

// userIDHeader is set by the authenticating edge (an external collaborator)
// and carries the acting user's sequence id.
const userIDHeader = "X-User-Id"

// RequestTrace populates the context with request-scoped AuditInfo so services
// and repositories can stamp audit fields. It should run after whatever edge
// component authenticates the request.
func RequestTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := platformlogging.FromRequest(r, nil)
		requestID, _ := r.Context().Value(middleware.RequestIDKey).(string)

		audit := requesttrace.Anonymous(requestID)
		if header := r.Header.Get(userIDHeader); header != "" {
			if userID, err := strconv.ParseInt(header, 10, 64); err == nil && userID > 0 {
				audit = requesttrace.ForUser(userID, requestID)
			}
		}

		ctx := requesttrace.IntoContext(r.Context(), audit)
		if logger != nil {
			fields := []zap.Field{zap.String("actor_kind", string(audit.ActorKind))}
			if audit.UserID != nil {
				fields = append(fields, zap.Int64("user_id", *audit.UserID))
			}
			logger = logger.With(fields...)
			ctx = platformlogging.WithLogger(ctx, logger)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
