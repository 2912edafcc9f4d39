package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalShape(t *testing.T) {
	b := Marshal(MissingField("options"))
	assert.JSONEq(t,
		`{"errors":[{"code":"missing_required_field","message":"Missing required field options in the request body."}]}`,
		string(b))
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	b := Marshal(New(422, "Error", "<tag> & more"))
	assert.Contains(t, string(b), "<tag> & more")
}

func TestWriteUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, Unauthorized())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid system token", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []Item{{Code: "unauthorized", Message: "Invalid system token."}}, body.Errors)
}

func TestWriteDefaultsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, &Error{Code: "x", Message: "y"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestFunctionFailedDefaults(t *testing.T) {
	e := FunctionFailed("", "", "runInstallerErrorStep")
	assert.Equal(t, "Error", e.Code)
	assert.Equal(t, "runInstallerErrorStep", e.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status)

	e = FunctionFailed("E_SETUP", "setup failed", "fn")
	assert.Equal(t, "E_SETUP", e.Code)
	assert.Equal(t, "setup failed", e.Message)
}

func TestSizeExceededCitesLimit(t *testing.T) {
	assert.Equal(t, "response stream exceeded limit of 2 bytes.", SizeExceeded(2).Message)
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	wrapped := fmt.Errorf("auth: %w", Unauthorized())
	assert.Equal(t, CodeUnauthorized, From(wrapped).Code)

	e := From(errors.New("boom"))
	assert.Equal(t, CodeInternal, e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestNotDeployed(t *testing.T) {
	e := NotDeployed()
	assert.Equal(t, "invaid_function_call", e.Code)
	assert.Equal(t, "Integration-extension-server not deployed.", e.Message)
}
