package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
)

const bearerPrefix = "Bearer "

// DecodeSubject reads the subject out of a bearer token's payload WITHOUT
// checking its signature. It exists for deployments still running with
// AUTH_VERIFY_SIGNATURES=false; everything else goes through a TokenService.
func DecodeSubject(header string) (Subject, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), bearerPrefix))
	if raw == "" {
		return Subject{}, ErrInvalidToken
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return Subject{}, ErrInvalidToken
	}

	payload, err := decodeSegment(segments[1])
	if err != nil {
		return Subject{}, ErrInvalidToken.Wrap(err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims map[string]any
	if err := dec.Decode(&claims); err != nil || claims == nil {
		return Subject{}, ErrInvalidToken
	}

	subject, ok := subjectFromClaims(claims)
	if !ok {
		return Subject{}, ErrInvalidToken
	}
	return subject, nil
}

// decodeSegment re-pads to a multiple of 4 and accepts both base64 alphabets.
func decodeSegment(seg string) ([]byte, error) {
	if rem := len(seg) % 4; rem != 0 {
		seg += strings.Repeat("=", 4-rem)
	}

	out, err := base64.URLEncoding.DecodeString(seg)
	if err == nil {
		return out, nil
	}
	return base64.StdEncoding.DecodeString(seg)
}
