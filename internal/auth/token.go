package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/config"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
)

var (
	ErrMissingAuth       = apperr.Unauthorized(httputil.CodeMissingAuth, "missing authentication")
	ErrInvalidAuthHeader = apperr.Unauthorized(httputil.CodeInvalidAuthHeader, "invalid authorization header format")
	ErrInvalidToken      = apperr.Unauthorized(httputil.CodeInvalidToken, "invalid token")
	ErrExpiredToken      = apperr.Unauthorized(httputil.CodeTokenExpired, "token has expired")
)

// TokenClaims is the verified content of an access token.
// ExpiresAt is zero for tokens issued without an expiry.
type TokenClaims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	// A zero duration issues a token that never expires.
	CreateToken(accountID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService returns the signer selected by AUTH_TOKEN_FORMAT
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatPaseto:
		svc, err := NewPasetoService(cfg.PasetoKey)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.TokenFormatJWT, "":
		svc, err := NewJWTService(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}
