package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/pkg/errors"
)

func TestNewAppError_DefaultCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *errors.AppError
		code string
		want int
	}{
		{"not found", errors.NewNotFoundError("missing"), errors.CodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("bad"), errors.CodeValidation, http.StatusBadRequest},
		{"internal", errors.NewInternalError("boom"), errors.CodeInternal, http.StatusInternalServerError},
		{"rate limited", errors.NewRateLimitedError("slow down"), errors.CodeRateLimited, http.StatusTooManyRequests},
		{"method not allowed", errors.NewMethodNotAllowedError("nope"), errors.CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"business", errors.NewBusinessError(errors.CodeInsufficientStock, "low"), errors.CodeInsufficientStock, http.StatusBadRequest},
		{"forbidden", errors.NewForbiddenError(errors.CodeAccountPending, "wait"), errors.CodeAccountPending, http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.want, tt.err.StatusCode)
		})
	}
}

func TestAs_UnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	base := errors.NewDuplicateEmailError()
	wrapped := fmt.Errorf("create user: %w", base)

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.CodeDuplicateEmail, appErr.Code)
	assert.Equal(t, errors.CodeDuplicateEmail, errors.CodeOf(wrapped))
	assert.True(t, stderrors.Is(wrapped, errors.ErrBusinessRule))
}

func TestCodeOf_PlainError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, errors.CodeInternal, errors.CodeOf(stderrors.New("plain")))
}

func TestWithField(t *testing.T) {
	t.Parallel()

	err := errors.NewValidationError("invalid").WithField("email", "required").WithField("name", "required")
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "email", err.Fields[0].Field)
	assert.Equal(t, "invalid", err.Error())
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsRetryable(errors.NewTemporaryError("later")))
	assert.False(t, errors.IsRetryable(errors.NewNotFoundError("gone")))
	assert.True(t, errors.IsRetryable(fmt.Errorf("wrap: %w", errors.ErrTimeout)))
	assert.False(t, errors.IsRetryable(stderrors.New("other")))
}
