// Package config loads the process environment of the extension gateway.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Env stores environment-driven settings. Deployment topology (DIY, connectors,
// policy) lives in the manifest instead.
type Env struct {
	// Service tags logs and traces.
	Service string `env:"EXTENSION_SERVICE" envDefault:"extension-gateway"`
	// ManifestPath is the TOML or YAML deployment manifest.
	ManifestPath string `env:"EXTENSION_MANIFEST" envDefault:"manifest.toml"`
	// ListenAddress is the HTTP listen address.
	ListenAddress string `env:"SERVER_LISTEN_ADDRESS" envDefault:":7000"`
	// SystemToken is the expected system credential on every /function call.
	SystemToken string `env:"INTEGRATOR_EXTENSION_SYSTEM_TOKEN,required,notEmpty"`
	// TLSCert and TLSKey enable TLS when both files exist.
	TLSCert string `env:"SSL_SERVER_CERTIFICATE"`
	TLSKey  string `env:"SSL_SERVER_KEY"`
	// LogDir receives system.log and http-access.log.
	LogDir string `env:"EXTENSION_LOG_DIR" envDefault:"log"`
	// OTLPEndpoint enables trace export when set (host:port).
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"EXTENSION_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Env.
func Load() (Env, error) {
	return env.ParseAs[Env]()
}
