package signup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/auth"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/validate"
)

var ErrEmailSendFailed = apperr.New(apperr.KindUpstream, httputil.CodeEmailSendFailed, "failed to send verification email")

// Store is the persistence the handshake needs
type Store interface {
	UpsertPending(ctx context.Context, p *PendingRegistration) error
	GetPendingByToken(ctx context.Context, token string) (*PendingRegistration, error)
	DeletePendingByToken(ctx context.Context, token string) error
	DeletePendingByEmail(ctx context.Context, email string) error
	AccountExists(ctx context.Context, email string) (bool, error)
	Promote(ctx context.Context, p *PendingRegistration, accountID uuid.UUID, now time.Time) (*account.Account, error)
}

// Mailer delivers the verification link
type Mailer interface {
	SendVerificationEmail(ctx context.Context, toEmail, name, link string) error
}

// Options tunes the handshake
type Options struct {
	TokenTTL           time.Duration
	AllowedEmailDomain string
	PasswordMinLength  int
	VerifyURL          string
}

// Service runs the email-link signup handshake
type Service struct {
	store  Store
	mailer Mailer
	logger *logging.Logger
	opts   Options
	now    func() time.Time
}

func NewService(store Store, mailer Mailer, logger *logging.Logger, opts Options) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	return &Service{
		store:  store,
		mailer: mailer,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Request represents the signup form
type Request struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

func (s *Service) validateRequest(r Request) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email, validation.By(s.allowedDomain)),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(s.opts.PasswordMinLength, 0)),
		validation.Field(&r.Nickname, validation.Required),
	)
}

func (s *Service) allowedDomain(value any) error {
	domain := s.opts.AllowedEmailDomain
	email, _ := value.(string)
	if domain == "" || email == "" {
		return nil
	}
	if !strings.HasSuffix(email, "@"+domain) {
		return fmt.Errorf("must be an @%s address", domain)
	}
	return nil
}

// Request stores a pending registration and emails its verification link.
// A repeated request for the same email replaces the earlier token.
func (s *Service) Request(ctx context.Context, req Request) (*PendingRegistration, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Nickname = strings.TrimSpace(req.Nickname)

	if err := validate.Check(s.validateRequest(req)); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, httputil.CodeInternalError, "failed to hash password").Wrap(err)
	}

	now := s.now()
	pending := &PendingRegistration{
		Email:        req.Email,
		DisplayName:  req.Name,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Token:        uuid.NewString(),
		ExpiresAt:    now.Add(s.opts.TokenTTL),
		CreatedAt:    now,
	}

	if err := s.store.UpsertPending(ctx, pending); err != nil {
		return nil, apperr.Upstream(httputil.CodeStoreError, "failed to save pending registration", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, pending.Email, pending.DisplayName, s.verifyLink(pending.Token)); err != nil {
		return nil, ErrEmailSendFailed.Wrap(err)
	}

	s.logger.Info("verification email sent", "email", pending.Email, "expires_at", pending.ExpiresAt)
	return pending, nil
}

func (s *Service) verifyLink(token string) string {
	return s.opts.VerifyURL + "?token=" + url.QueryEscape(token)
}

// Outcome is the terminal state of a verification attempt
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeVerified
	OutcomeInvalid
	OutcomeExpired
	OutcomeCollided
)

// RedirectCode is the short code appended to the login redirect
func (o Outcome) RedirectCode() string {
	switch o {
	case OutcomeVerified:
		return ""
	case OutcomeInvalid:
		return "invalid-token"
	case OutcomeExpired:
		return "expired-token"
	case OutcomeCollided:
		return "email-exists"
	default:
		return "server-error"
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "verified"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeExpired:
		return "expired"
	case OutcomeCollided:
		return "collided"
	default:
		return "failed"
	}
}

// Result is what a verification attempt ended in
type Result struct {
	Outcome Outcome
	Account *account.Account
	Err     error
}

// Verify redeems a one-time token
func (s *Service) Verify(ctx context.Context, token string) Result {
	token = strings.TrimSpace(token)
	if token == "" {
		return Result{Outcome: OutcomeInvalid}
	}

	pending, err := s.store.GetPendingByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrPendingNotFound) {
			return Result{Outcome: OutcomeFailed, Err: err}
		}
		if err := s.store.DeletePendingByToken(ctx, token); err != nil {
			s.logger.Warn("failed to clean up unknown token", "error", err.Error())
		}
		return Result{Outcome: OutcomeInvalid}
	}

	if pending.Expired(s.now()) {
		if err := s.store.DeletePendingByEmail(ctx, pending.Email); err != nil {
			s.logger.Warn("failed to delete expired registration", "email", pending.Email, "error", err.Error())
		}
		return Result{Outcome: OutcomeExpired}
	}

	exists, err := s.store.AccountExists(ctx, pending.Email)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	if exists {
		return Result{Outcome: OutcomeCollided}
	}

	acc, err := s.store.Promote(ctx, pending, uuid.New(), s.now())
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return Result{Outcome: OutcomeCollided}
		}
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	return Result{Outcome: OutcomeVerified, Account: acc}
}
