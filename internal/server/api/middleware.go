package api

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	tokenIDKey contextKey = "tokenID"
)

// TokenValidator authenticates a bearer token and returns the user id and
// the token id (jti).
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, string, error)
}

// requireAuth rejects requests without a valid bearer token. Failures are
// transport-level 401s, never the logical envelope, so clients can tell a
// dead session apart from a domain error.
func requireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondUnauthorized(w, "missing bearer token")
				return
			}

			userID, tokenID, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, tokenIDKey, tokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func tokenIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(tokenIDKey).(string)
	return id
}
