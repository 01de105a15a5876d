package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const SubjectContextKey ContextKey = "auth_subject"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService     TokenService
	verifySignatures bool
}

// NewMiddleware builds the bearer gate. With verifySignatures off the token
// payload is only decoded (see DecodeSubject).
func NewMiddleware(tokenService TokenService, verifySignatures bool) *Middleware {
	return &Middleware{tokenService: tokenService, verifySignatures: verifySignatures}
}

// Authenticate resolves the caller of r or returns an auth error
func (m *Middleware) Authenticate(r *http.Request) (Subject, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Subject{}, ErrMissingAuth
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Subject{}, ErrInvalidAuthHeader
	}

	if !m.verifySignatures {
		return DecodeSubject(header)
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return Subject{}, ErrInvalidAuthHeader
	}

	claims, err := m.tokenService.VerifyToken(token)
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return Subject{}, err
		}
		return Subject{}, ErrInvalidToken.Wrap(err)
	}

	return Subject{ID: claims.Subject, Email: claims.Email}, nil
}

// RequireAuth is a middleware that rejects requests without a valid bearer token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.Authenticate(r)
		if err != nil {
			logging.GetLoggerFromContext(r.Context()).Warn("authentication failed", "error", err.Error())
			httputil.RespondError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
	})
}

// WithSubject stores the authenticated caller in ctx
func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, SubjectContextKey, s)
}

// SubjectFromContext extracts the authenticated caller from the request context
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(SubjectContextKey).(Subject)
	return s, ok
}
