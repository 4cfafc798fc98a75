package http

import (
	"context"
	"net/http"
	"strings"

	applog "github.com/AsheemRahman/Expense-Tracker-Analytics/internal/log"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// requireAuth verifies the bearer token and stores the caller's user id in
// the request context. Missing, malformed, invalid and expired tokens all
// come back as 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			applog.FromContext(r.Context()).DebugContext(r.Context(), "Token rejected", "error", err)
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
