package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestBuildCallInjectsFunction(t *testing.T) {
	req := &InvocationRequest{
		Type:     extension.CategoryHook,
		Function: "onEvent",
		Options:  options(t, `{"function":"spoofed","x":1}`),
		Target:   DiyTarget(),
	}
	call := BuildCall(context.Background(), req, ExecutionTarget{Kind: TargetDIY})

	assert.JSONEq(t, `"onEvent"`, string(call.Payload["function"]))
	assert.JSONEq(t, `1`, string(call.Payload["x"]))
	assert.JSONEq(t, `"spoofed"`, string(req.Options["function"]), "request options must not be mutated")
	assert.Equal(t, "hook", call.Headers[HeaderType])
	assert.NotEmpty(t, call.Headers[HeaderInvocationID])
	assert.NotContains(t, call.Headers, HeaderConnectorID)
	assert.Equal(t, extension.Identity{}, call.Identity)
}

func TestBuildCallIdentity(t *testing.T) {
	c := &connector.Connector{ID: "slack"}
	opts := `{"bearerToken":"bt","_integrationId":"iid"}`

	for typ, wantIID := range map[extension.Category]string{
		extension.CategoryInstaller: "iid",
		extension.CategorySetting:   "iid",
		extension.CategoryHook:      "",
	} {
		req := &InvocationRequest{Type: typ, Function: "f", Options: options(t, opts), Target: ConnectorTarget("slack")}
		call := BuildCall(context.Background(), req, ExecutionTarget{Kind: TargetConnector, Connector: c})
		assert.Equal(t, "bt", call.Identity.BearerToken, typ)
		assert.Equal(t, wantIID, call.Identity.IntegrationID, typ)
		assert.Equal(t, "slack", call.Headers[HeaderConnectorID])
		// Identity fields stay in the forwarded payload for every category.
		assert.Contains(t, call.Payload, "_integrationId")
	}
}

func TestBuildCallRequestID(t *testing.T) {
	var ctx context.Context
	chimd.RequestID(httpHandlerFunc(func(r context.Context) { ctx = r })).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, PathFunction, nil))

	call := BuildCall(ctx, &InvocationRequest{Function: "f"}, ExecutionTarget{Kind: TargetDIY})
	assert.NotEmpty(t, call.Headers[HeaderRequestID])
	assert.NotEqual(t, call.Headers[HeaderRequestID], call.Headers[HeaderInvocationID])

	other := BuildCall(ctx, &InvocationRequest{Function: "f"}, ExecutionTarget{Kind: TargetDIY})
	assert.NotEqual(t, call.Headers[HeaderInvocationID], other.Headers[HeaderInvocationID])
}

type httpHandlerFunc func(ctx context.Context)

func (f httpHandlerFunc) ServeHTTP(_ http.ResponseWriter, r *http.Request) { f(r.Context()) }
