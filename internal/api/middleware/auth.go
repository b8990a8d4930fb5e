// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/services"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionResolver turns an access token into the session it is bound to.
type SessionResolver interface {
	ResolveCurrentUser(ctx context.Context, accessToken string) (*domain.Session, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Authenticate resolves the bearer token of every request and stores the
// session in the request context. Inactive sessions pass; see RequireActive.
func Authenticate(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, r, apperrors.NewInvalidTokenError("missing bearer token"))
				return
			}

			session, err := resolver.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				response.Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActive rejects requests whose session has been revoked.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session == nil {
			response.Error(w, r, apperrors.NewInvalidTokenError("no session"))
			return
		}
		if err := services.RequireActive(session); err != nil {
			response.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the session stored by Authenticate.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey).(*domain.Session)
	return session
}

// WithSession stores a session in ctx, for tests.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}
