package middleware

import (
	"net/http"
	"strings"

	"facetoface-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActorHeader carries the user the host platform authenticated.
const ActorHeader = "X-User-ID"

// Actor puts the acting user from ActorHeader on the request context.
// Authentication and capability checks belong to the host.
func Actor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ActorHeader))
			if raw == "" {
				utils.ResponseUnauthorized(w, "Missing "+ActorHeader+" header")
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				logger.Warn("Invalid actor header",
					zap.String("value", raw),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseBadRequest(w, "Invalid "+ActorHeader+" header", nil)
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
