package manifest

// HandlerType enumerates the supported execution target kinds.
type HandlerType string

const (
	HandlerInproc HandlerType = "inproc"
	HandlerHTTP   HandlerType = "http"
)

// HSpec says where a DIY or connector call is executed: an in-process module
// registered under Name, or a remote extension server at URL.
type HSpec struct {
	Type    HandlerType       `toml:"type" yaml:"type" json:"type"`
	Name    string            `toml:"name" yaml:"name" json:"name,omitempty"`
	URL     string            `toml:"url" yaml:"url" json:"url,omitempty"`
	Headers map[string]string `toml:"headers" yaml:"headers" json:"headers,omitempty"`
}

// DownstreamAuth configures the credentials the gateway presents to a connector.
type DownstreamAuth struct {
	Type       string `toml:"type" yaml:"type" json:"type"`                                // "none" | "static-bearer" | "signed-assertion"
	Header     string `toml:"header" yaml:"header" json:"header,omitempty"`                // default: Authorization
	SecretEnv  string `toml:"secret_env" yaml:"secret_env" json:"secretEnv,omitempty"`     // env var holding the bearer or signing secret
	Audience   string `toml:"audience" yaml:"audience" json:"audience,omitempty"`          // signed-assertion aud; default: connector id
	TTLSeconds int    `toml:"ttl_seconds" yaml:"ttl_seconds" json:"ttlSeconds,omitempty"` // signed-assertion lifetime; default 60
}

// Connector is a statically declared installed connector.
type Connector struct {
	ID       string          `toml:"id" yaml:"id"`
	Disabled bool            `toml:"disabled" yaml:"disabled"`
	Handler  HSpec           `toml:"handler" yaml:"handler"`
	DownAuth *DownstreamAuth `toml:"downstream_auth" yaml:"downstream_auth"`
}

// RegistryBackend selects where connectors are looked up.
type RegistryBackend string

const (
	RegistryStatic   RegistryBackend = "static"
	RegistryRedis    RegistryBackend = "redis"
	RegistryPostgres RegistryBackend = "postgres"
)

type Registry struct {
	Backend  RegistryBackend `toml:"backend" yaml:"backend"`
	Redis    *RedisSpec      `toml:"redis" yaml:"redis"`
	Postgres *PostgresSpec   `toml:"postgres" yaml:"postgres"`
}

type RedisSpec struct {
	Addr        string `toml:"addr" yaml:"addr"`
	PasswordEnv string `toml:"password_env" yaml:"password_env"`
	DB          int    `toml:"db" yaml:"db"`
	KeyPrefix   string `toml:"key_prefix" yaml:"key_prefix"`
}

type PostgresSpec struct {
	DSNEnv string `toml:"dsn_env" yaml:"dsn_env"`
	Table  string `toml:"table" yaml:"table"`
}
