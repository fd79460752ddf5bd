package http

import (
	"context"
	"net/http"
	"strings"

	"squadhub-backend/internal/logger"
	"squadhub-backend/internal/security"

	"github.com/google/uuid"
)

type contextKey string

const (
	contextKeyUserID    contextKey = "user_id"
	contextKeyRequestID contextKey = "request_id"
)

// RequestID tags every request with a fresh ID for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging records method, path and request ID at debug level.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Request received", "method", r.Method, "path", r.URL.Path, "request_id", r.Context().Value(contextKeyRequestID))
		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the bearer token and stores the caller's user ID in
// the request context. Only access tokens pass.
func Authenticate(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "authorization token is not provided"})
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "invalid authorization header"})
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "invalid token"})
				return
			}
			if claims.Type != security.TokenTypeAccess {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "access token required"})
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFrom returns the authenticated caller's ID, 0 when absent.
func userIDFrom(r *http.Request) int32 {
	if id, ok := r.Context().Value(contextKeyUserID).(int32); ok {
		return id
	}
	return 0
}
