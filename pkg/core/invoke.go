package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Headers set on every outbound call.
const (
	HeaderRequestID    = "X-Request-Id"
	HeaderInvocationID = "X-Invocation-Id"
	HeaderType         = "X-Extension-Type"
	HeaderConnectorID  = "X-Connector-Id"
)

const tracerName = "github.com/joeydtaylor/steeze-extension/pkg/core"

// Invoker performs the outbound call against a resolved target.
type Invoker struct {
	Creds CredentialsProvider
	Log   *zap.Logger
}

// BuildCall assembles the outbound payload {function, ...options}. The
// function name always wins over an options key of the same name.
func BuildCall(ctx context.Context, req *InvocationRequest, tgt ExecutionTarget) extension.Call {
	payload := make(map[string]json.RawMessage, len(req.Options)+1)
	maps.Copy(payload, req.Options)
	fn, _ := json.Marshal(req.Function)
	payload[extension.FieldFunction] = fn

	call := extension.Call{
		Function: req.Function,
		Type:     req.Type,
		Payload:  payload,
		Headers: map[string]string{
			HeaderInvocationID: uuid.NewString(),
			HeaderType:         string(req.Type),
		},
	}
	if rid := chimd.GetReqID(ctx); rid != "" {
		call.Headers[HeaderRequestID] = rid
	}
	if tgt.Connector != nil {
		call.Headers[HeaderConnectorID] = tgt.Connector.ID
		call.Identity = identity(req)
	}
	return call
}

// identity reads the caller identification connectors rely on. Integration
// ids only accompany installer and setting calls.
func identity(req *InvocationRequest) extension.Identity {
	var id extension.Identity
	if raw, ok := req.Options[extension.FieldBearerToken]; ok {
		_ = json.Unmarshal(raw, &id.BearerToken)
	}
	if req.Type == extension.CategoryInstaller || req.Type == extension.CategorySetting {
		if raw, ok := req.Options[extension.FieldIntegrationID]; ok {
			_ = json.Unmarshal(raw, &id.IntegrationID)
		}
	}
	return id
}

// Invoke runs the call. The returned reply must be consumed before ctx is
// cancelled since remote replies stream from the open connection.
func (inv *Invoker) Invoke(ctx context.Context, req *InvocationRequest, tgt ExecutionTarget) (extension.Reply, *envelope.Error) {
	call := BuildCall(ctx, req, tgt)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "extension.invoke",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("extension.function", req.Function),
			attribute.String("extension.type", string(req.Type)),
			attribute.String("extension.target", tgt.Label()),
			attribute.String("extension.invocation_id", call.Headers[HeaderInvocationID]),
		))
	defer span.End()

	if tgt.Connector != nil && inv.Creds != nil {
		creds, err := inv.Creds.Issue(ctx, *tgt.Connector, call)
		if err != nil {
			inv.logger().Error("issue connector credentials",
				zap.String("connector", tgt.Connector.ID), zap.Error(err))
			span.SetStatus(codes.Error, "credentials")
			return nil, envelope.New(http.StatusInternalServerError, envelope.CodeInternal,
				"Unable to issue connector credentials.")
		}
		if creds.HeaderName != "" && creds.HeaderValue != "" {
			call.Headers[creds.HeaderName] = creds.HeaderValue
		}
		for k, v := range creds.Extra {
			call.Headers[k] = v
		}
	}

	reply, err := tgt.Target.Invoke(ctx, call)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invoke")
		return nil, inv.failure(err, req, tgt)
	}
	return reply, nil
}

func (inv *Invoker) failure(err error, req *InvocationRequest, tgt ExecutionTarget) *envelope.Error {
	var (
		fe *extension.FunctionError
		pe *extension.PanicError
	)
	switch {
	case errors.As(err, &fe):
		return envelope.FunctionFailed(fe.Code, fe.Message, req.Function)
	case errors.As(err, &pe):
		inv.logger().Error("function panicked",
			zap.String("function", req.Function),
			zap.String("target", tgt.Label()),
			zap.String("panic", fmt.Sprint(pe.Value)))
		return envelope.FunctionFailed("", "", req.Function)
	case errors.Is(err, context.DeadlineExceeded):
		return envelope.FunctionTimeout(req.Function)
	}
	inv.logger().Warn("invoke target",
		zap.String("function", req.Function),
		zap.String("target", tgt.Label()),
		zap.Error(err))
	return envelope.FunctionFailed("", "", req.Function)
}

func (inv *Invoker) logger() *zap.Logger {
	if inv.Log == nil {
		return zap.NewNop()
	}
	return inv.Log
}
