package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type contextKey struct{}

var userKey contextKey

// UserFromContext returns the authenticated user stored by Authenticate.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}

func renderAuthError(w http.ResponseWriter, err error) {
	domainErr, ok := domain.AsError(err)
	if !ok {
		domainErr = &domain.Error{Status: http.StatusInternalServerError, Message: "internal server error"}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(domainErr.Status)
	json.NewEncoder(w).Encode(map[string]string{"error": domainErr.Message})
}

// Authenticate parses a Bearer session token when one is present and stores
// the caller's identity in the request context. Requests without a token
// pass through anonymously; RequireAuth gates the protected routes.
func (s *Service) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			renderAuthError(w, domain.NewUnauthenticated("authorization header must use the Bearer scheme"))
			return
		}

		claims, err := s.ParseToken(token)
		if err != nil {
			renderAuthError(w, err)
			return
		}

		user := domain.User{
			ID:       claims.UserID,
			Role:     claims.Role,
			Username: claims.Username,
			Status:   claims.Status,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// RequireAuth rejects requests that did not carry a valid session token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			renderAuthError(w, domain.NewUnauthenticated("authentication is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from callers without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			renderAuthError(w, domain.NewUnauthenticated("authentication is required"))
			return
		}
		if user.Role != domain.UserRoleAdmin {
			renderAuthError(w, domain.NewUnauthorized("admin role is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
