package signup

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
)

const sendLinkPurpose = "send-link"

// RateLimiter throttles verification emails per IP and per address
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	CheckEmailCooldown(ctx context.Context, email string) (bool, error)
	SetEmailCooldown(ctx context.Context, email string) error
}

// Availability answers the signup form's uniqueness checks
type Availability interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
}

// Handler contains HTTP handlers for the signup handshake
type Handler struct {
	service      *Service
	availability Availability
	rateLimiter  RateLimiter
	loginURL     string
}

// NewHandler builds the signup handlers. rateLimiter may be nil.
func NewHandler(service *Service, availability Availability, rateLimiter RateLimiter, loginURL string) *Handler {
	return &Handler{
		service:      service,
		availability: availability,
		rateLimiter:  rateLimiter,
		loginURL:     loginURL,
	}
}

// MessageResponse is the body of a successful send-link
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AvailabilityResponse reports whether a value is still free
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// SendLink handles signup requests
// @Summary      Request a verification link
// @Description  Stores a pending registration and emails a link that expires in 30 minutes
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        request body Request true "Signup form"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests or cooldown active"
// @Failure      500 {object} httputil.ErrorResponse "Store or email failure"
// @Router       /api/send-link [post]
func (h *Handler) SendLink(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := httputil.ClientIP(r)

	if h.rateLimiter != nil {
		exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, sendLinkPurpose)
		if err != nil {
			logger.Error("failed to check IP rate limit", "error", err.Error())
		} else if exceeded {
			logger.Warn("IP rate limit exceeded for send-link", "ip", ip)
			httputil.RespondError(w, apperr.New(apperr.KindTooManyRequests, httputil.CodeTooManyRequests, "too many requests, please try again later"))
			return
		}
	}

	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.rateLimiter != nil && email != "" {
		active, err := h.rateLimiter.CheckEmailCooldown(r.Context(), email)
		if err != nil {
			logger.Error("failed to check email cooldown", "error", err.Error())
		} else if active {
			httputil.RespondError(w, apperr.New(apperr.KindTooManyRequests, httputil.CodeCooldownActive, "please wait before requesting another email"))
			return
		}
	}

	if h.rateLimiter != nil {
		if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, sendLinkPurpose); err != nil {
			logger.Error("failed to record IP request", "error", err.Error())
		}
	}

	if _, err := h.service.Request(r.Context(), req); err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			logger.Warn("signup request rejected", "error", err.Error())
		} else {
			logger.Error("signup request failed", "email", email, "error", err.Error())
		}
		httputil.RespondError(w, err)
		return
	}

	if h.rateLimiter != nil {
		if err := h.rateLimiter.SetEmailCooldown(r.Context(), email); err != nil {
			logger.Error("failed to set email cooldown", "error", err.Error())
		}
	}

	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "verification email sent"}, http.StatusOK)
}

// Verify handles the link from the verification email
// @Summary      Verify a signup link
// @Description  Redirects to the login page with ?success=true or ?error=invalid-token|expired-token|email-exists|server-error
// @Tags         signup
// @Param        token query string true "One-time token"
// @Success      302
// @Router       /api/verify [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	result := h.service.Verify(r.Context(), r.URL.Query().Get("token"))
	switch result.Outcome {
	case OutcomeVerified:
		logger.Info("account created", "account_id", result.Account.ID)
	case OutcomeFailed:
		logger.Error("verification failed", "error", errString(result.Err))
	default:
		logger.Warn("verification rejected", "outcome", result.Outcome.String())
	}

	http.Redirect(w, r, h.redirectURL(result.Outcome), http.StatusFound)
}

func (h *Handler) redirectURL(o Outcome) string {
	q := url.Values{}
	if code := o.RedirectCode(); code != "" {
		q.Set("error", code)
	} else {
		q.Set("success", "true")
	}
	return h.loginURL + "?" + q.Encode()
}

// CheckEmail reports whether an email is free to register
// @Summary      Check email availability
// @Tags         signup
// @Produce      json
// @Param        email query string true "Email"
// @Success      200 {object} httputil.SuccessResponse{data=AvailabilityResponse}
// @Failure      400 {object} httputil.ErrorResponse "Email missing"
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /api/check-email [get]
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		httputil.RespondError(w, apperr.Validation(httputil.CodeEmailRequired, "email is required"))
		return
	}

	h.respondAvailability(w, r, func(ctx context.Context) (bool, error) {
		return h.availability.ExistsByEmail(ctx, email)
	})
}

// CheckNickname reports whether a nickname is free
// @Summary      Check nickname availability
// @Tags         signup
// @Produce      json
// @Param        nickname query string true "Nickname"
// @Success      200 {object} httputil.SuccessResponse{data=AvailabilityResponse}
// @Failure      400 {object} httputil.ErrorResponse "Nickname missing"
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /api/check-nickname [get]
func (h *Handler) CheckNickname(w http.ResponseWriter, r *http.Request) {
	nickname := strings.TrimSpace(r.URL.Query().Get("nickname"))
	if nickname == "" {
		httputil.RespondError(w, apperr.Validation(httputil.CodeMissingFields, "nickname is required"))
		return
	}

	h.respondAvailability(w, r, func(ctx context.Context) (bool, error) {
		return h.availability.ExistsByNickname(ctx, nickname)
	})
}

func (h *Handler) respondAvailability(w http.ResponseWriter, r *http.Request, exists func(context.Context) (bool, error)) {
	taken, err := exists(r.Context())
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("availability check failed", "error", err.Error())
		httputil.RespondError(w, apperr.Upstream(httputil.CodeStoreError, "failed to check availability", err))
		return
	}

	httputil.RespondSuccess(w, "", AvailabilityResponse{Available: !taken}, http.StatusOK)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
