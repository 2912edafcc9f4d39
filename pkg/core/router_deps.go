package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-extension/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/ratelimit"
	httpx "github.com/joeydtaylor/steeze-extension/pkg/transport/httpx"
)

// ConnectorLister lists the ids a registry can enumerate.
type ConnectorLister interface {
	IDs() []string
}

type BuildDeps struct {
	Auth       *auth.Middleware
	LogMW      *logger.Middleware
	Metrics    http.Handler
	Router     httpx.Router
	Limiter    *ratelimit.Limiter
	Connectors ConnectorLister
}
