package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrConflict,
		ErrInternal, ErrServiceUnavail, ErrAuthRequired, ErrTransport, ErrRejected,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	inner := fmt.Errorf("dial tcp: refused")
	appErr := &AppError{Code: "TRANSPORT_ERROR", Message: "unreachable", Err: inner}
	assert.Equal(t, "TRANSPORT_ERROR: unreachable: dial tcp: refused", appErr.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "product not found"}
	assert.Equal(t, "NOT_FOUND: product not found", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestRejected_WrapsStatusSentinel(t *testing.T) {
	err := Rejected(http.StatusNotFound, "", "Item not in cart", "")

	assert.Equal(t, "REJECTED", err.Code)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestRejected_KeepsReason(t *testing.T) {
	err := Rejected(http.StatusForbidden, "", "", "admin_approval_required")
	assert.Equal(t, "admin_approval_required", err.Reason)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"auth", AuthRequired("log in"), KindAuthRequired},
		{"validation", InvalidInput("name is required"), KindValidation},
		{"transport", Transport(errors.New("timeout")), KindTransport},
		{"rejected", Rejected(http.StatusBadRequest, "", "bad price", ""), KindRejected},
		{"wrapped rejected", fmt.Errorf("delete: %w", Rejected(500, "", "", "")), KindRejected},
		{"plain", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "server-rejected", KindRejected.String())
	assert.Equal(t, "authentication-required", KindAuthRequired.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestUserMessage(t *testing.T) {
	const fallback = "Could not add to cart"

	assert.Equal(t, "Out of stock", UserMessage(Rejected(409, "", "Out of stock", ""), fallback))
	assert.Equal(t, fallback, UserMessage(Rejected(500, "", "", ""), fallback))
	assert.Equal(t, fallback, UserMessage(Transport(errors.New("refused")), fallback))
	assert.Equal(t, fallback, UserMessage(errors.New("raw"), fallback))
	assert.Equal(t, "name is required", UserMessage(InvalidInput("name is required"), fallback))
	assert.Equal(t, "not your product", UserMessage(Forbidden("not your product"), fallback))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Transport(errors.New("x"))))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(fmt.Errorf("wrap: %w", ErrAuthRequired)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))

	err := Internal(errors.New("boom"))
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}
