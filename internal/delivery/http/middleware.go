package http

import (
	"context"
	"net/http"
	"strings"

	"lexlink/internal/entity"
	"lexlink/internal/usecase"
)

type contextKey string

const UserContextKey contextKey = "user"

type AuthMiddleware struct {
	authUc usecase.AuthUsecase
}

func NewAuthMiddleware(authUc usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		authUc: authUc,
	}
}

// Authenticate resolves the caller from the Bearer token and stores the
// claims on the request context. Handlers pass the resolved user id into
// the usecases explicitly.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, Response{Message: "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, Response{Message: "invalid authorization header format"})
			return
		}

		claims, err := m.authUc.ValidateAccessToken(parts[1])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, Response{Message: "invalid or expired token"})
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUserId returns the authenticated caller's user id, if any.
func CurrentUserId(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*entity.TokenClaims)
	if !ok || claims == nil || claims.UserId == "" {
		return "", false
	}
	return claims.UserId, true
}
