package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad").Status)
	assert.Equal(t, http.StatusUnauthorized, Authentication("who").Status)
	assert.Equal(t, http.StatusForbidden, Authorization("no").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("gone").Status)
	assert.Equal(t, http.StatusConflict, Conflict("dup").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal("boom", nil).Status)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("gone")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))

	wrapped := fmt.Errorf("context: %w", Authorization("no"))
	assert.Equal(t, http.StatusForbidden, StatusOf(wrapped))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "gone", MessageOf(NotFound("gone")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("secret detail")))
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to store refresh token", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to store refresh token")
	assert.Contains(t, err.Error(), "connection refused")
	// the public message never leaks the cause
	assert.Equal(t, "failed to store refresh token", MessageOf(err))
}
