package httputil

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends the {success:true, message, data} envelope.
func RespondSuccess(w http.ResponseWriter, message string, data any, statusCode int) {
	RespondJSON(w, SuccessResponse{Success: true, Message: message, Data: data}, statusCode)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Message: message, Code: code}, statusCode)
}

// RespondError renders err as the failure envelope. Errors outside the
// apperr taxonomy become a generic 500 so internals never leak.
func RespondError(w http.ResponseWriter, err error) {
	e, ok := apperr.As(err)
	if !ok {
		RespondErrorWithCode(w, "internal server error", CodeInternalError, http.StatusInternalServerError)
		return
	}

	body := map[string]any{
		"success": false,
		"message": e.Message,
	}
	if e.Code != "" {
		body["code"] = e.Code
	}
	if e.Kind == apperr.KindUpstream && e.Err != nil {
		body["error"] = e.Err.Error()
	}
	for k, v := range e.Details {
		if _, reserved := body[k]; !reserved {
			body[k] = v
		}
	}

	RespondJSON(w, body, e.Kind.HTTPStatus())
}

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation(CodeInvalidRequestBody, "invalid request body").Wrap(err)
	}
	return nil
}

// ClientIP returns the caller's address, preferring proxy headers
func ClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr format is "IP:port", extract just the IP
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
