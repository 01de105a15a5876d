package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/validate"
)

var (
	ErrEmailRequired      = apperr.Validation(httputil.CodeEmailRequired, "email is required")
	ErrUserNotFound       = apperr.NotFound(httputil.CodeUserNotFound, "user not found")
	ErrInvalidCredentials = apperr.Unauthorized(httputil.CodeInvalidCredentials, "invalid email or password")
)

// AccountLookup is the subset of the account repository the issuer needs
type AccountLookup interface {
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
}

// Service issues access tokens
type Service struct {
	accounts      AccountLookup
	tokens        TokenService
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(accounts AccountLookup, tokens TokenService, logger *logging.Logger, tokenDuration time.Duration) *Service {
	return &Service{
		accounts:      accounts,
		tokens:        tokens,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResult is a freshly issued token plus the account it belongs to
type LoginResult struct {
	Token   string
	Account *account.Account
}

// IssueForEmail signs a token for the account registered under email.
// No password is checked; callers must already be trusted.
func (s *Service) IssueForEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", apperr.Upstream(httputil.CodeStoreError, "failed to look up account", err)
	}

	return s.issue(acc)
}

// Login verifies the password and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Check(req.Validate()); err != nil {
		return nil, err
	}

	acc, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Upstream(httputil.CodeStoreError, "failed to look up account", err)
	}

	if !VerifyPassword(acc.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(acc)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Account: acc}, nil
}

func (s *Service) issue(acc *account.Account) (string, error) {
	if acc.ID == uuid.Nil {
		return "", apperr.New(apperr.KindInternal, httputil.CodeTokenIssueFailed, "account has no id")
	}

	token, err := s.tokens.CreateToken(acc.ID, acc.Email, s.tokenDuration)
	if err != nil {
		return "", apperr.New(apperr.KindInternal, httputil.CodeTokenIssueFailed, "failed to issue token").
			Wrap(fmt.Errorf("create token: %w", err))
	}

	s.logger.Debug("issued access token", "account_id", acc.ID)
	return token, nil
}
