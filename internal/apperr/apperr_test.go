package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = Forbidden("not-owner", "you can only modify your own products")

func TestKind_HTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:       http.StatusBadRequest,
		KindAuth:             http.StatusUnauthorized,
		KindForbidden:        http.StatusForbidden,
		KindNotFound:         http.StatusNotFound,
		KindConflict:         http.StatusConflict,
		KindMethodNotAllowed: http.StatusMethodNotAllowed,
		KindTooManyRequests:  http.StatusTooManyRequests,
		KindUpstream:         http.StatusInternalServerError,
		KindInternal:         http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestError_IsThroughWrappingAndCopies(t *testing.T) {
	wrapped := fmt.Errorf("delete product 42: %w", errSentinel)
	assert.ErrorIs(t, wrapped, errSentinel)

	detailed := errSentinel.WithDetail("productId", 42)
	assert.ErrorIs(t, detailed, errSentinel)
	assert.Nil(t, errSentinel.Details, "WithDetail must not mutate the sentinel")
	assert.Equal(t, 42, detailed.Details["productId"])

	other := Forbidden("other", "something else")
	assert.NotErrorIs(t, detailed, other)
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("db-error", "failed to load product", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load product: connection refused", err.Error())
	assert.Equal(t, KindUpstream, KindOf(fmt.Errorf("outer: %w", err)))

	rewrapped := errSentinel.Wrap(cause)
	assert.ErrorIs(t, rewrapped, errSentinel)
	assert.ErrorIs(t, rewrapped, cause)
	assert.Nil(t, errSentinel.Err)
}

func TestAs(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	e, ok := As(fmt.Errorf("x: %w", NotFound("product-not-found", "product not found")))
	require.True(t, ok)
	assert.Equal(t, "product-not-found", e.Code)
}
