package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondError_TaxonomyEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperr.Validation(CodeInvalidStatus, "invalid status value").
		WithDetail("validValues", []string{"available", "reserved", "sold"})

	RespondError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid status value", body["message"])
	assert.Equal(t, CodeInvalidStatus, body["code"])
	assert.Equal(t, []any{"available", "reserved", "sold"}, body["validValues"])
	assert.NotContains(t, body, "error")
}

func TestRespondError_UpstreamCarriesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, apperr.Upstream(CodeStoreError, "failed to update product", errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "connection reset", body["error"])
}

func TestRespondError_DetailsCannotOverrideEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, apperr.Forbidden(CodeNotOwner, "nope").WithDetail("success", true))

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRespondError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, CodeInternalError, body["code"])
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, "created", map[string]int64{"product_id": 42}, http.StatusOK)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"product_id": float64(42)}, body["data"])
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@gachon.ac.kr"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "a@gachon.ac.kr", dst.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := DecodeJSON(req, &dst)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
