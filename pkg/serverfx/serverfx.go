package serverfx

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-extension/pkg/config"
	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	"github.com/joeydtaylor/steeze-extension/pkg/core"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	"github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-extension/pkg/middleware/ratelimit"
	"github.com/joeydtaylor/steeze-extension/pkg/target"
	"github.com/joeydtaylor/steeze-extension/pkg/telemetry"
	"github.com/joeydtaylor/steeze-extension/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Options struct {
	Service      string             // overrides EXTENSION_SERVICE
	ManifestPath string             // overrides EXTENSION_MANIFEST
	Modules      *extension.Modules // default: extension.Default
}

type Option func(*Options)

func WithService(s string) Option             { return func(o *Options) { o.Service = s } }
func WithManifest(path string) Option         { return func(o *Options) { o.ManifestPath = path } }
func WithModules(m *extension.Modules) Option { return func(o *Options) { o.Modules = m } }

// Module returns the complete gateway as an Fx option set.
func Module(opts ...Option) fx.Option {
	o := Options{Modules: extension.Default}
	for _, fn := range opts {
		fn(&o)
	}
	return fx.Options(
		fx.Supply(o),
		fx.Provide(provideEnv),
		fx.Provide(provideManifest),
		bundlefx.Module,
		fx.Provide(httpx.NewChi),
		fx.Provide(provideRegistry),
		fx.Provide(provideGateway),
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),
		fx.Invoke(registerHooks),
	)
}

func provideEnv(o Options) (config.Env, error) {
	env, err := config.Load()
	if err != nil {
		return config.Env{}, fmt.Errorf("load environment: %w", err)
	}
	if o.Service != "" {
		env.Service = o.Service
	}
	if o.ManifestPath != "" {
		env.ManifestPath = o.ManifestPath
	}
	return env, nil
}

func provideManifest(env config.Env) (manifest.Config, error) {
	return core.LoadConfig(env.ManifestPath)
}

// ---------- Registry ----------

type registries struct {
	fx.Out
	Registry connector.Registry
	Static   *connector.Static
}

func provideRegistry(lc fx.Lifecycle, man manifest.Config, zl *zap.Logger) (registries, error) {
	static := connector.NewStatic(man.Connectors)
	out := registries{Registry: static, Static: static}

	switch man.Registry.Backend {
	case manifest.RegistryRedis:
		spec := man.Registry.Redis
		rr := connector.NewRedis(connector.RedisConfig{
			Addr:      spec.Addr,
			Password:  os.Getenv(spec.PasswordEnv),
			DB:        spec.DB,
			KeyPrefix: spec.KeyPrefix,
		})
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return rr.Close() }})
		out.Registry = rr
		zl.Info("connector registry", zap.String("backend", "redis"), zap.String("addr", spec.Addr))

	case manifest.RegistryPostgres:
		spec := man.Registry.Postgres
		dsn := os.Getenv(spec.DSNEnv)
		if dsn == "" {
			return registries{}, fmt.Errorf("registry: %s is empty", spec.DSNEnv)
		}
		pg, err := connector.NewPostgres(context.Background(), dsn, spec.Table)
		if err != nil {
			return registries{}, fmt.Errorf("registry: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return pg.Close() }})
		out.Registry = pg
		zl.Info("connector registry", zap.String("backend", "postgres"), zap.String("table", spec.Table))

	default:
		zl.Info("connector registry", zap.String("backend", "static"), zap.Int("connectors", len(static.IDs())))
	}
	return out, nil
}

// ---------- Gateway + router ----------

func provideGateway(o Options, man manifest.Config, a *auth.Middleware, reg connector.Registry, zl *zap.Logger) (*core.Gateway, error) {
	return core.NewGateway(man, core.GatewayDeps{
		Auth:       a,
		Connectors: reg,
		Targets:    target.NewBuilder(o.Modules),
		Log:        zl,
	})
}

type routerDeps struct {
	fx.In

	Gateway *core.Gateway
	Man     manifest.Config
	AuthMW  *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler `name:"metrics"`
	Static  *connector.Static
	R       httpx.Router
}

func provideRouter(d routerDeps) http.Handler {
	return core.BuildRouter(d.Gateway, core.BuildDeps{
		Auth:       d.AuthMW,
		LogMW:      d.LogMW,
		Metrics:    d.Metrics,
		Router:     d.R,
		Limiter:    ratelimit.New(d.Man.Policy.RateLimit),
		Connectors: d.Static,
	})
}

// ---------- Lifecycle ----------

type serverDeps struct {
	fx.In
	Env    config.Env
	Man    manifest.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	srv := &Server{
		Addr:         d.Env.ListenAddress,
		Handler:      d.App,
		CertFile:     d.Env.TLSCert,
		KeyFile:      d.Env.TLSKey,
		WriteTimeout: WriteTimeoutFor(time.Duration(d.Man.Policy.TimeoutMS) * time.Millisecond),
		Log:          d.Logger,
	}
	var tp *telemetry.Provider

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p, err := telemetry.Init(ctx, telemetry.Config{
				Endpoint:    d.Env.OTLPEndpoint,
				ServiceName: d.Env.Service,
			})
			if err != nil {
				return err
			}
			tp = p
			return srv.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, d.Env.ShutdownTimeout)
			defer cancel()
			err := srv.Stop(ctx)
			if terr := tp.Shutdown(ctx); terr != nil {
				d.Logger.Warn("telemetry shutdown", zap.Error(terr))
			}
			_ = d.Logger.Sync()
			return err
		},
	})
}
