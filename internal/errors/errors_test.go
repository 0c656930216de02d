package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("validation failed",
		ValidationDetail{Field: "phone", Message: "phone is required"},
	)

	assert.Equal(t, "validation failed", err.Error())
	assert.Len(t, err.Details, 1)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "phone", ve.Details[0].Field)

	_, ok = IsValidationError(errors.New("other"))
	assert.False(t, ok)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("order with id 7 not found")

	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order with id 7 not found", err.Error())

	_, ok = IsNotFoundError(NewForbiddenError("nope"))
	assert.False(t, ok)
}

func TestInvalidStateError(t *testing.T) {
	err := NewInvalidStateError("only open orders can be validated")

	_, ok := IsInvalidStateError(err)
	assert.True(t, ok)

	_, ok = IsConflictError(err)
	assert.False(t, ok)
}

func TestInternalErrorUnwrap(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := NewInternalError("listing products", cause)

	assert.Equal(t, fmt.Sprintf("listing products: %v", cause), err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewInternalError("no cause", nil)
	assert.Equal(t, "no cause", bare.Error())
}
