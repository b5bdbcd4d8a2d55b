package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := fmt.Errorf("save board: %w", ErrPersistenceFailed("add", cause))

	assert.True(t, IsCode(err, ErrorCode_PERSISTENCE_FAILED))
	assert.True(t, stdErrors.Is(err, cause))

	var appErr AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	assert.Equal(t, "add", appErr.Details["operation"])
	assert.Contains(t, appErr.Error(), "PERSISTENCE_FAILED")
}

func TestAppError_WithDetailDoesNotShareMaps(t *testing.T) {
	base := ErrActionItemNotFound("a")
	other := base.WithDetail("id", "b")

	assert.Equal(t, "a", base.Details["id"])
	assert.Equal(t, "b", other.Details["id"])
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode_INTERNAL, CodeOf(stdErrors.New("plain")))
	assert.Equal(t, ErrorCode_VALIDATION_FAILED, CodeOf(ErrValidationFailed("status", nil)))
	assert.False(t, IsCode(nil, ErrorCode_INTERNAL))
	assert.Equal(t, "NOT_FOUND", ErrorCode_NOT_FOUND.String())
	assert.Equal(t, "ErrorCode(99)", ErrorCode(99).String())
}
