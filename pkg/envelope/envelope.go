// Package envelope renders every gateway failure as the fixed JSON error body
// {"errors":[{"code":...,"message":...}]}.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced on the wire.
const (
	CodeMissingField      = "missing_required_field"
	CodeInvalidField      = "invalid_field"
	CodeInvalidJSON       = "invalid_json"
	CodeUnauthorized      = "unauthorized"
	CodeSizeExceeded      = "response_size_exceeded"
	CodeInvalidResponse   = "invalid_extension_response"
	CodeFunctionError     = "Error"
	CodeFunctionTimeout   = "function_timeout"
	CodeLookupFailed      = "connector_lookup_failed"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal_error"
	CodeNotDeployed       = "invaid_function_call"
	MessageMissingRouting = "Need to set either the diy or _connectorId field in request."
)

// Error is one (code, message, status) triple. Challenge, when set, is sent as
// the WWW-Authenticate header.
type Error struct {
	Code      string
	Message   string
	Status    int
	Challenge string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// Item is the wire form of a single error.
type Item struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Body is the wire form of the failure envelope.
type Body struct {
	Errors []Item `json:"errors"`
}

func New(status int, code, msg string) *Error {
	return &Error{Code: code, Message: msg, Status: status}
}

func MissingField(name string) *Error {
	return New(http.StatusUnprocessableEntity, CodeMissingField,
		fmt.Sprintf("Missing required field %s in the request body.", name))
}

func MissingRouting() *Error {
	return New(http.StatusUnprocessableEntity, CodeMissingField, MessageMissingRouting)
}

func DIYNotConfigured() *Error {
	return New(http.StatusUnprocessableEntity, CodeMissingField, "DIY is not configured in the extension server.")
}

func InvalidField(name, want string) *Error {
	return New(http.StatusUnprocessableEntity, CodeInvalidField,
		fmt.Sprintf("Field %s in the request body must be %s.", name, want))
}

func InvalidJSON() *Error {
	return New(http.StatusBadRequest, CodeInvalidJSON, "Request body must be a JSON object.")
}

func Unauthorized() *Error {
	return &Error{
		Code:      CodeUnauthorized,
		Message:   "Invalid system token.",
		Status:    http.StatusUnauthorized,
		Challenge: "invalid system token",
	}
}

func SizeExceeded(limit int64) *Error {
	return New(http.StatusUnprocessableEntity, CodeSizeExceeded,
		fmt.Sprintf("response stream exceeded limit of %d bytes.", limit))
}

func NotSerializable() *Error {
	return New(http.StatusUnprocessableEntity, CodeInvalidResponse, "Extension response is not serializable.")
}

// FunctionFailed passes a target-reported failure through. Empty code becomes
// "Error"; empty message becomes the function name.
func FunctionFailed(code, msg, function string) *Error {
	if code == "" {
		code = CodeFunctionError
	}
	if msg == "" {
		msg = function
	}
	return New(http.StatusUnprocessableEntity, code, msg)
}

func FunctionTimeout(function string) *Error {
	return New(http.StatusUnprocessableEntity, CodeFunctionTimeout,
		fmt.Sprintf("Function %s did not respond in time.", function))
}

func LookupFailed() *Error {
	return New(http.StatusBadGateway, CodeLookupFailed, "Unable to look up connector.")
}

func RateLimited() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, "Too many requests.")
}

func NotDeployed() *Error {
	return New(http.StatusInternalServerError, CodeNotDeployed, "Integration-extension-server not deployed.")
}

// From converts any error into an envelope error; unknown errors become a 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(http.StatusInternalServerError, CodeInternal, "Internal server error.")
}

// Marshal encodes the single-error envelope.
func Marshal(e *Error) []byte {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(Body{Errors: []Item{{Code: e.Code, Message: e.Message}}})
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// Write renders e with its status code.
func Write(w http.ResponseWriter, e *Error) {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if e.Challenge != "" {
		w.Header().Set("WWW-Authenticate", e.Challenge)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(Marshal(e))
}
