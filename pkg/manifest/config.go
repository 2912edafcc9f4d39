package manifest

// Config is the deployment manifest of the extension gateway.
type Config struct {
	DIY        DIY         `toml:"diy" yaml:"diy"`
	Connectors []Connector `toml:"connector" yaml:"connectors"`
	Registry   Registry    `toml:"registry" yaml:"registry"`
	Policy     Policy      `toml:"policy" yaml:"policy"`
}

// DIY configures the self-hosted extension server. Calls with diy=true are
// rejected unless Enabled is set.
type DIY struct {
	Enabled bool  `toml:"enabled" yaml:"enabled"`
	Handler HSpec `toml:"handler" yaml:"handler"`
}

// Policy applies to every invocation.
type Policy struct {
	TimeoutMS        int        `toml:"timeout_ms" yaml:"timeout_ms"`
	MaxResponseBytes int64      `toml:"max_response_bytes" yaml:"max_response_bytes"`
	RateLimit        *RateLimit `toml:"rate_limit" yaml:"rate_limit"`
}

type RateLimit struct {
	RPS   int `toml:"rps" yaml:"rps"`
	Burst int `toml:"burst" yaml:"burst"`
}

// DefaultTimeoutMS applies when policy.timeout_ms is unset.
const DefaultTimeoutMS = 30000

// Validate normalizes defaults and checks the manifest.
func (c *Config) Validate() error {
	if c.Policy.TimeoutMS == 0 {
		c.Policy.TimeoutMS = DefaultTimeoutMS
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateDIY(); err != nil {
		return err
	}
	if err := c.validateConnectors(); err != nil {
		return err
	}
	return c.Registry.validate()
}
