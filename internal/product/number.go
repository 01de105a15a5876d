package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNotANumber = errors.New("not a number")

// Number accepts a JSON number or a numeric string such as "12,000".
// The raw text is kept so that a bad value can be reported as a field
// error rather than a malformed body.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
	default:
		*n = Number(b)
	}
	return nil
}

// Int64 parses the value, ignoring thousands separators
func (n Number) Int64() (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(string(n)), ",", "")
	if s == "" {
		return 0, errNotANumber
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotANumber
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, errNotANumber
	}
	return int64(f), nil
}
