package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrNotFound, "tutor not found")
	assert.Equal(t, "tutor not found", cloned.Message)
	assert.True(t, errors.Is(cloned, ErrNotFound))
	assert.False(t, errors.Is(cloned, ErrValidation))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWithDetails(t *testing.T) {
	details := []FieldError{{Field: "email", Rule: "email", Message: "email must be a valid email"}}
	appErr := WithDetails(ErrValidation, details)
	assert.Len(t, appErr.Details, 1)
	assert.Empty(t, ErrValidation.Details)
}
