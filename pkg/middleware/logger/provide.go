package logger

import (
	"github.com/joeydtaylor/steeze-extension/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideLoggerMiddleware() *Middleware { return &Middleware{} }

// ProvideLogger builds the system logger and installs the file-backed access logger.
func ProvideLogger(cfg config.Env) *zap.Logger {
	SetAccessLogger(NewLog(cfg.LogDir, "http-access.log"))
	return NewLog(cfg.LogDir, "system.log").With(zap.String("service", cfg.Service))
}

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
