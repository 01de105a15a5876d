package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
)

type fakeAccounts struct {
	byEmail map[string]*account.Account
	err     error
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	acc, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, account.ErrNotFound
	}
	return acc, nil
}

type fakeLimiter struct {
	exceeded bool
	recorded []string
}

func (f *fakeLimiter) CheckIPRateLimitWithPurpose(context.Context, string, string) (bool, error) {
	return f.exceeded, nil
}

func (f *fakeLimiter) RecordIPRequestWithPurpose(_ context.Context, ip, purpose string) error {
	f.recorded = append(f.recorded, purpose+":"+ip)
	return nil
}

func newTestService(t *testing.T, accounts AccountLookup) (*Service, *JWTService) {
	t.Helper()
	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	return NewService(accounts, tokens, logging.Discard(), time.Hour), tokens
}

func seededAccounts(t *testing.T) (*fakeAccounts, *account.Account) {
	t.Helper()
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	acc := &account.Account{ID: uuid.New(), Email: "kim@gachon.ac.kr", PasswordHash: hash, DisplayName: "Kim", Nickname: "kimmy"}
	return &fakeAccounts{byEmail: map[string]*account.Account{acc.Email: acc}}, acc
}

func TestIssueForEmail(t *testing.T) {
	accounts, acc := seededAccounts(t)
	svc, tokens := newTestService(t, accounts)

	token, err := svc.IssueForEmail(context.Background(), " kim@gachon.ac.kr ")
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID.String(), claims.Subject)

	_, err = svc.IssueForEmail(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.IssueForEmail(context.Background(), "ghost@gachon.ac.kr")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIssueForEmail_StoreError(t *testing.T) {
	svc, _ := newTestService(t, &fakeAccounts{err: errors.New("db down")})

	_, err := svc.IssueForEmail(context.Background(), "kim@gachon.ac.kr")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	accounts, acc := seededAccounts(t)
	svc, _ := newTestService(t, accounts)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Email: acc.Email, Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, acc.ID, res.Account.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: acc.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "ghost@gachon.ac.kr", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func postJSON(h http.HandlerFunc, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandler_IssueToken(t *testing.T) {
	accounts, _ := seededAccounts(t)
	svc, _ := newTestService(t, accounts)
	h := NewHandler(svc, nil, "s3cret")

	rec := postJSON(h.IssueToken, `{"email":"kim@gachon.ac.kr"}`, map[string]string{TrustedCallerHeader: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)

	rec = postJSON(h.IssueToken, `{"email":"kim@gachon.ac.kr"}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postJSON(h.IssueToken, `{}`, map[string]string{TrustedCallerHeader: "s3cret"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(h.IssueToken, `{"email":"ghost@gachon.ac.kr"}`, map[string]string{TrustedCallerHeader: "s3cret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), httputil.CodeUserNotFound)
}

func TestHandler_Login(t *testing.T) {
	accounts, _ := seededAccounts(t)
	svc, _ := newTestService(t, accounts)
	limiter := &fakeLimiter{}
	h := NewHandler(svc, limiter, "")

	rec := postJSON(h.Login, `{"email":"kim@gachon.ac.kr","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.Len(t, limiter.recorded, 1)

	rec = postJSON(h.Login, `{"email":"kim@gachon.ac.kr","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	limiter.exceeded = true
	rec = postJSON(h.Login, `{"email":"kim@gachon.ac.kr","password":"hunter22"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
