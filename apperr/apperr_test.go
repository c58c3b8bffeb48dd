package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NotFound("form", "x").HTTPStatus())
	assert.Equal(t, http.StatusForbidden, Forbidden("no").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).HTTPStatus())
}

func TestNotFound(t *testing.T) {
	err := NotFound("form", "abc")
	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, "form not found", err.Message)
	assert.Equal(t, "abc", err.Details["id"])

	// no details when the id is unknown
	assert.Nil(t, NotFound("form", "").Details)
}

func TestFieldValidation(t *testing.T) {
	err := FieldValidation("f1", "Name", "field \"Name\" is required")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "f1", err.Details["fieldId"])
	assert.Equal(t, "Name", err.Details["fieldLabel"])
}

func TestInternal(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Internal(cause)

	// client-facing message stays generic, the cause is only in the chain
	assert.Equal(t, "internal server error", err.Message)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
}
