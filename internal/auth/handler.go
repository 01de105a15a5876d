package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
)

// TrustedCallerHeader carries the shared key of a server-side caller
const TrustedCallerHeader = "X-Trusted-Caller-Key"

var ErrUntrustedCaller = apperr.Forbidden(httputil.CodeUntrustedCaller, "caller is not allowed to exchange tokens")

// RateLimiter throttles token endpoints per client IP
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
}

// Handler contains HTTP handlers for token endpoints
type Handler struct {
	service          *Service
	rateLimiter      RateLimiter
	trustedCallerKey string
}

// NewHandler builds the token handlers. rateLimiter may be nil.
func NewHandler(service *Service, rateLimiter RateLimiter, trustedCallerKey string) *Handler {
	return &Handler{
		service:          service,
		rateLimiter:      rateLimiter,
		trustedCallerKey: trustedCallerKey,
	}
}

// IssueTokenRequest represents the trusted token exchange body
type IssueTokenRequest struct {
	Email string `json:"email"`
}

// TokenResponse carries a signed access token
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginResponse is returned by a successful password login
type LoginResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    *account.Account `json:"user"`
}

// IssueToken handles the trusted token exchange
// @Summary      Exchange an email for an access token
// @Description  Server-to-server endpoint. Requires the X-Trusted-Caller-Key header when a key is configured.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body IssueTokenRequest true "Account email"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorResponse "Email missing"
// @Failure      403 {object} httputil.ErrorResponse "Untrusted caller"
// @Failure      404 {object} httputil.ErrorResponse "No account for email"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/login-token [post]
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.callerTrusted(r) {
		logger.Warn("token exchange rejected: untrusted caller", "ip", httputil.ClientIP(r))
		httputil.RespondError(w, ErrUntrustedCaller)
		return
	}

	var req IssueTokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	token, err := h.service.IssueForEmail(r.Context(), req.Email)
	if err != nil {
		logTokenError(logger, "token exchange failed", err)
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, TokenResponse{Token: token}, http.StatusOK)
}

// Login handles password login
// @Summary      User login
// @Description  Verify email and password and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := httputil.ClientIP(r)
	if h.rateLimiter != nil {
		exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, "login")
		if err != nil {
			logger.Error("failed to check IP rate limit", "error", err.Error())
		} else if exceeded {
			logger.Warn("IP rate limit exceeded for login", "ip", ip)
			httputil.RespondError(w, apperr.New(apperr.KindTooManyRequests, httputil.CodeTooManyRequests, "too many requests, please try again later"))
			return
		}
	}

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	if h.rateLimiter != nil {
		if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "login"); err != nil {
			logger.Error("failed to record IP request", "error", err.Error())
		}
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		logTokenError(logger.WithFields(map[string]any{"email": req.Email}), "login failed", err)
		httputil.RespondError(w, err)
		return
	}

	logger.Info("user logged in", "account_id", result.Account.ID)
	httputil.RespondJSON(w, LoginResponse{Success: true, Token: result.Token, User: result.Account}, http.StatusOK)
}

func (h *Handler) callerTrusted(r *http.Request) bool {
	if h.trustedCallerKey == "" {
		return true
	}
	got := r.Header.Get(TrustedCallerHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.trustedCallerKey)) == 1
}

func logTokenError(logger *logging.Logger, msg string, err error) {
	if apperr.KindOf(err).HTTPStatus() >= http.StatusInternalServerError {
		logger.Error(msg, "error", err.Error())
		return
	}
	logger.Warn(msg, "error", err.Error())
}
