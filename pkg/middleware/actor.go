package middleware

import (
	"net/http"

	"training-scheduler/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor stamps the acting user from the X-Actor-ID header onto the
// request context. The upstream gateway authenticates the caller; here
// the id is used only for audit log fields.
func Actor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-Actor-ID")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			actorID, err := uuid.Parse(header)
			if err != nil {
				logger.Warn("Invalid X-Actor-ID header",
					zap.String("value", header),
					zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetActorContext(r.Context(), actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
