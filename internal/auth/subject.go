package auth

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Subject identifies the caller of an authenticated request
type Subject struct {
	ID    string
	Email string
}

// subjectClaimKeys are checked in order; the first non-empty value wins.
var subjectClaimKeys = []string{"sub", "user_id", "id", "userId"}

func subjectFromClaims(claims map[string]any) (Subject, bool) {
	var s Subject
	for _, key := range subjectClaimKeys {
		if id, ok := claimString(claims[key]); ok {
			s.ID = id
			break
		}
	}
	if s.ID == "" {
		return Subject{}, false
	}

	if email, ok := claims["email"].(string); ok {
		s.Email = email
	}
	return s, true
}

func claimString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		val = strings.TrimSpace(val)
		return val, val != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), val.String() != ""
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}
