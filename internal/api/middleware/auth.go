package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/messup/backend/internal/domain/entities"
	apperrors "github.com/messup/backend/pkg/errors"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionResolver resolves a bearer token to the session it identifies.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*entities.Session, error)
}

// AuthMiddleware guards routes behind a valid bearer session.
type AuthMiddleware struct {
	resolver SessionResolver
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireSession rejects requests without a valid session and stores the
// resolved session in the request context.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		session, err := m.resolver.CurrentSession(r.Context(), token)
		if err != nil {
			respondAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin is RequireSession plus an admin role check.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok || !session.IsAdmin() {
			respondAuthError(w, apperrors.NewForbiddenError("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// SessionFromContext retrieves the authenticated session placed in the
// context by RequireSession.
func SessionFromContext(ctx context.Context) (*entities.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*entities.Session)
	return session, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func respondAuthError(w http.ResponseWriter, err error) {
	status := apperrors.StatusFor(err)
	message := "unauthorized"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
