// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the system-token auth, zap loggers and the /metrics handler.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
