package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLogger_WithFields(t *testing.T) {
	log, buf := newBufferLogger(t)

	log.WithFields(map[string]any{"email": "a@gachon.ac.kr", "attempt": 2}).Info("hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"level=INFO", "msg=hello", "email=a@gachon.ac.kr", "attempt=2", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false)

	log.Debug("hidden")
	log.Info("shown", "n", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
	assert.Contains(t, out, `"msg":"shown"`)
}

func TestGetLoggerFromContext_FallsBack(t *testing.T) {
	require.NotNil(t, GetLoggerFromContext(context.Background()))

	log, _ := newBufferLogger(t)
	assert.Same(t, log, GetLoggerFromContext(WithLogger(context.Background(), log)))
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusForbidden, "level=WARN"},
		{http.StatusBadGateway, "level=ERROR"},
	}

	for _, tc := range cases {
		log, buf := newBufferLogger(t)
		var seen *Logger

		h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetLoggerFromContext(r.Context())
			w.WriteHeader(tc.status)
		})))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

		require.NotNil(t, seen)
		assert.NotSame(t, log, seen)
		out := buf.String()
		assert.Contains(t, out, "request completed")
		assert.Contains(t, out, tc.level)
		assert.Contains(t, out, "path=/api/products")
		assert.Contains(t, out, "request_id=")
	}
}
