package core

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	hmetrics "github.com/joeydtaylor/steeze-extension/pkg/middleware/metrics"
	"go.uber.org/zap"
)

// Authenticator checks the caller's system credential.
type Authenticator interface {
	Authenticate(r *http.Request) error
}

// Stage names the pipeline step a request failed in.
type Stage string

const (
	StageValidate     Stage = "validate"
	StageAuthenticate Stage = "authenticate"
	StageResolve      Stage = "resolve"
	StageInvoke       Stage = "invoke"
	StageGuard        Stage = "guard"
)

// Gateway serves POST /function: validate, authenticate, resolve, invoke,
// guard. It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	Auth     Authenticator
	Resolver *Resolver
	Invoker  *Invoker
	Guard    Guard
	Timeout  time.Duration
	Log      *zap.Logger
}

// Outcome describes a finished request.
type Outcome struct {
	Request *InvocationRequest
	Target  ExecutionTarget
	Stage   Stage
	Err     *envelope.Error
	Body    []byte
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	out := g.Dispatch(r)

	fields := []zap.Field{
		zap.String("request_id", chimd.GetReqID(r.Context())),
		zap.Duration("elapsed", time.Since(start)),
	}
	if out.Request != nil {
		fields = append(fields,
			zap.String("function", out.Request.Function),
			zap.String("type", string(out.Request.Type)),
			zap.String("target", out.Request.Target.String()))
	}
	if out.Err != nil {
		fields = append(fields, zap.String("stage", string(out.Stage)), zap.String("code", out.Err.Code))
		g.logger().Info("invocation failed", fields...)
		envelope.Write(w, out.Err)
		return
	}
	g.logger().Debug("invocation ok", append(fields, zap.Int("bytes", len(out.Body)))...)
	writeJSON(w, out.Body, http.StatusOK)
}

// Dispatch runs the pipeline and returns the reply body or the first failure.
func (g *Gateway) Dispatch(r *http.Request) Outcome {
	req, e := DecodeRequest(r.Body)
	if e != nil {
		return Outcome{Stage: StageValidate, Err: e}
	}
	out := Outcome{Request: req}

	if err := g.Auth.Authenticate(r); err != nil {
		out.Stage, out.Err = StageAuthenticate, envelope.From(err)
		return out
	}

	tgt, e := g.Resolver.Resolve(r.Context(), req.Target)
	if e != nil {
		out.Stage, out.Err = StageResolve, e
		return out
	}
	out.Target = tgt

	ctx, cancel := withTimeout(r.Context(), g.Timeout)
	defer cancel()

	start := time.Now()
	reply, e := g.Invoker.Invoke(ctx, req, tgt)
	if e != nil {
		hmetrics.ObserveInvocation(req.Type, tgt.Label(), e.Code, time.Since(start))
		out.Stage, out.Err = StageInvoke, e
		return out
	}

	body, e := g.Guard.Consume(reply, g.Guard.Limit(req), req.Function)
	if e != nil {
		hmetrics.ObserveInvocation(req.Type, tgt.Label(), e.Code, time.Since(start))
		out.Stage, out.Err = StageGuard, e
		return out
	}
	hmetrics.ObserveInvocation(req.Type, tgt.Label(), "ok", time.Since(start))
	hmetrics.ObserveReply(len(body))
	out.Body = body
	return out
}

func (g *Gateway) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}
