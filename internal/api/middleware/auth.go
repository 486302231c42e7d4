package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/servicios-app/backend/internal/domain/entities"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

type userContextKey struct{}

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserFromContext returns the user stored by RequireAuth
func UserFromContext(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*entities.User)
	return user, ok && user != nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user in the request context
func RequireAuth(auth Authenticator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), BearerToken(r))
			if err != nil {
				status, message := http.StatusInternalServerError, "internal server error"
				if appErr, ok := apperrors.As(err); ok && appErr.Type == apperrors.ErrorTypeUnauthorized {
					status, message = http.StatusUnauthorized, appErr.Message
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(map[string]string{"error": message})
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next(w, r.WithContext(ctx))
		}
	}
}
