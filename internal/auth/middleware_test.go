package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/jeogi-market/internal/httputil"
)

func protected(m *Middleware) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SubjectFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		httputil.RespondJSON(w, map[string]string{"id": s.ID, "email": s.Email}, http.StatusOK)
	}))
}

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/my-products", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

func TestRequireAuth_Verified(t *testing.T) {
	svc, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	h := protected(NewMiddleware(svc, true))
	id := uuid.New()

	token, err := svc.CreateToken(id, "kim@gachon.ac.kr", time.Hour)
	require.NoError(t, err)

	rec := serve(h, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id.String())

	cases := map[string]struct {
		header string
		code   string
	}{
		"missing":      {"", httputil.CodeMissingAuth},
		"basic scheme": {"Basic dXNlcjpwYXNz", httputil.CodeInvalidAuthHeader},
		"empty bearer": {"Bearer    ", httputil.CodeInvalidAuthHeader},
		"forged":       {"Bearer " + fakeToken(`{"sub":"` + id.String() + `"}`), httputil.CodeInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(h, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}
}

func TestRequireAuth_Expired(t *testing.T) {
	svc, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, err := svc.CreateToken(uuid.New(), "kim@gachon.ac.kr", time.Hour)
	require.NoError(t, err)
	svc.now = time.Now

	rec := serve(protected(NewMiddleware(svc, true)), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeTokenExpired, errorCode(t, rec))
}

func TestRequireAuth_UnverifiedMode(t *testing.T) {
	h := protected(NewMiddleware(nil, false))

	rec := serve(h, "Bearer "+fakeToken(`{"user_id":"legacy-7","email":"lee@gachon.ac.kr"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"legacy-7","email":"lee@gachon.ac.kr"}`, rec.Body.String())

	rec = serve(h, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidToken, errorCode(t, rec))
}
