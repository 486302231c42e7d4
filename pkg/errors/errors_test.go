package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	apperrors "github.com/servicios-app/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := apperrors.NewInternalError("failed to create review", stderrors.New("boom"))
	assert.Equal(t, "INTERNAL: failed to create review: boom", err.Error())

	notFound := apperrors.NewNotFoundError("review with id 3 not found")
	assert.Equal(t, "NOT_FOUND: review with id 3 not found", notFound.Error())
}

func TestIsType_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading professional: %w", apperrors.NewNotFoundError("professional with id 9 not found"))

	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeNotFound))
	assert.False(t, apperrors.IsType(wrapped, apperrors.ErrorTypeValidation))
	assert.False(t, apperrors.IsType(stderrors.New("plain"), apperrors.ErrorTypeNotFound))

	appErr, ok := apperrors.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "professional with id 9 not found", appErr.Message)
}

func TestNewMissingFieldsError(t *testing.T) {
	err := apperrors.NewMissingFieldsError([]string{"name", "price"})
	assert.Equal(t, apperrors.ErrorTypeValidation, err.Type)
	assert.Equal(t, "missing required fields: name, price", err.Message)
}
