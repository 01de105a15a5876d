package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	now          func() time.Time
}

func NewPasetoService(symmetricKey []byte) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		now:          time.Now,
	}, nil
}

// CreateToken generates a new PASETO v4.local token carrying sub, id and email
func (s *PasetoService) CreateToken(accountID uuid.UUID, email string, duration time.Duration) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	if duration > 0 {
		token.SetExpiration(now.Add(duration))
	}
	token.SetSubject(accountID.String())
	token.SetString("id", accountID.String())
	token.SetString("email", email)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts a v4.local token and returns the claims.
// Expiry is checked here rather than by the parser so that tokens issued
// without an exp claim stay valid.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}

	out := &TokenClaims{}
	if exp, err := token.GetExpiration(); err == nil {
		if s.now().After(exp) {
			return nil, ErrExpiredToken
		}
		out.ExpiresAt = exp
	}

	subject, ok := subjectFromClaims(token.Claims())
	if !ok {
		return nil, ErrInvalidToken
	}
	out.Subject = subject.ID
	out.Email = subject.Email

	if iat, err := token.GetIssuedAt(); err == nil {
		out.IssuedAt = iat
	}

	return out, nil
}
