package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"cableerp/utils"
)

type ctxKey int

const userIDKey ctxKey = iota

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject as the acting user.
func RequireAuth(tokens *utils.TokenIssuer) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				writeJSON(w, http.StatusUnauthorized, ApiResponse{Success: false, Message: "Missing bearer token"})
				return
			}
			claims, err := tokens.ParseToken(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, ApiResponse{Success: false, Message: "Invalid or expired token"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", claims.Subject)
			})
			next(w, r.WithContext(ctx))
		}
	}
}

// UserID is the authenticated user of the request, or "".
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
