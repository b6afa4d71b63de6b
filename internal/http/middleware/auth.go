package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/pkg/userctx"
)

// Authenticator resolves a bearer token to the id of its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// Auth rejects requests without a valid bearer token and stores the user id
// in the request context. errFunc writes the rejection.
func Auth(auth Authenticator, errFunc func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				errFunc(w, r, apperr.UnauthorizedErr)
				return
			}

			userID, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				errFunc(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(userctx.NewContext(r.Context(), userID)))
		})
	}
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return userctx.FromContext(ctx)
}
