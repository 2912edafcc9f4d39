// core/router.go
package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	hmetrics "github.com/joeydtaylor/steeze-extension/pkg/middleware/metrics"
)

// Paths served by the gateway.
const (
	PathFunction   = "/function"
	PathConnectors = "/connectors"
	PathMetrics    = "/metrics"
	PathPing       = "/ping"
)

// BuildRouter mounts the gateway. POST /function authenticates inside the
// pipeline so a malformed body is reported before a bad token.
func BuildRouter(g *Gateway, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat(PathPing))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	r.Use(hmetrics.Collect())
	hmetrics.AddKnownPaths(PathFunction, PathConnectors)

	if d.Metrics != nil {
		r.Get(PathMetrics, d.Metrics)
	}

	r.Post(PathFunction, d.Limiter.Middleware()(g))

	if d.Connectors != nil && d.Auth != nil {
		r.Get(PathConnectors, d.Auth.Middleware()(listConnectors(d.Connectors)))
	}
	return r.Mux()
}
