package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrapping(t *testing.T) {
	err := NewConflictError("name already taken")

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "name already taken", err.Error())

	wrapped := fmt.Errorf("creating department: %w", err)
	assert.ErrorIs(t, wrapped, ErrConflict)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("department not found")

	assert.ErrorIs(t, err, ErrDepartmentNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "custom message", Message(NewValidationError("custom message"), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("opaque"), "fallback"))
	assert.Equal(t, "fallback", Message(&CustomError{Err: ErrBadRequest}, "fallback"))
}
