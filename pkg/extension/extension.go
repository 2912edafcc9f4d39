// Package extension defines the contract between the gateway and the targets
// that execute extension functions: the outbound call, the reply stream and
// the failure a function can report.
package extension

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Category classifies the invoked function.
type Category string

const (
	CategoryInstaller Category = "installer"
	CategorySetting   Category = "setting"
	CategoryHook      Category = "hook"
)

// Identity field names carried inside options.
const (
	FieldBearerToken   = "bearerToken"
	FieldIntegrationID = "_integrationId"
	FieldFunction      = "function"
)

// Identity holds the caller identification forwarded to connectors.
type Identity struct {
	BearerToken   string
	IntegrationID string
}

// Call is the outbound invocation. Payload is {function, ...options} and is
// owned by the request being processed.
type Call struct {
	Function string
	Type     Category
	Payload  map[string]json.RawMessage
	Identity Identity
	Headers  map[string]string
}

// Decode unmarshals one payload field into v. Missing fields leave v untouched.
func (c Call) Decode(field string, v any) error {
	raw, ok := c.Payload[field]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// Reply is a target's answer, consumed once by writing it to w.
type Reply interface {
	WriteTo(w io.Writer) (int64, error)
	Close() error
}

// Target executes calls.
type Target interface {
	Invoke(ctx context.Context, call Call) (Reply, error)
}

// FunctionError is a failure reported by the function itself.
type FunctionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FunctionError) Error() string {
	if e.Message == "" {
		return "extension function failed"
	}
	return e.Message
}

// PanicError reports a function that panicked. Value is kept for logs and
// is never part of the reply.
type PanicError struct {
	Function string
	Value    any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("function %s panicked", e.Function)
}
