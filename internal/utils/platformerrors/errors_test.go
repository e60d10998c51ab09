package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeRateLimited, http.StatusTooManyRequests},
		{ErrorTypeExternal, http.StatusBadGateway},
		{ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorTypeToHTTPStatus(tt.errorType))
		})
	}
}

func TestNewErrorCarriesRequestIDAndCause(t *testing.T) {
	cause := errors.New("boom")
	ctx := WithRequestID(context.Background(), "req-42")

	err := NewError(ctx, LayerDomain, ErrorTypeExternal, "model invocation failed", cause)

	require.NotNil(t, err)
	assert.Equal(t, "req-42", err.RequestID)
	assert.NotEmpty(t, err.UUID)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())
	assert.True(t, IsErrorType(err, ErrorTypeExternal))
	assert.False(t, IsErrorType(cause, ErrorTypeExternal))
}

func TestAsErrorKeepsExistingPlatformError(t *testing.T) {
	original := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "query is required", nil)
	wrapped := AsError(context.Background(), LayerHandler, original, "handler")

	assert.Same(t, original, wrapped)
	assert.Nil(t, AsError(context.Background(), LayerHandler, nil, "nothing"))

	plain := AsError(context.Background(), LayerHandler, errors.New("plain"), "unexpected")
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.Equal(t, LayerHandler, plain.Layer)
}
