package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// normalize trims and lower-cases the handler spec.
func (h *HSpec) normalize() {
	h.Type = HandlerType(strings.ToLower(strings.TrimSpace(string(h.Type))))
	h.Name = strings.TrimSpace(h.Name)
	h.URL = strings.TrimSpace(h.URL)
}

func (h *HSpec) validate() error {
	switch h.Type {
	case HandlerInproc:
		if h.Name == "" {
			return errors.New("handler.name required for inproc")
		}
	case HandlerHTTP:
		if h.URL == "" {
			return errors.New("handler.url required for http")
		}
		u, err := url.Parse(h.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("handler.url %q must be an absolute http(s) URL", h.URL)
		}
	case "":
		return errors.New("handler.type is required")
	default:
		return fmt.Errorf("unknown handler type %q", h.Type)
	}
	return nil
}

// Normalized returns h trimmed and lower-cased as the manifest loader would.
func (h HSpec) Normalized() HSpec {
	h.normalize()
	return h
}

// Validate checks a handler spec loaded outside the manifest, e.g. a stored connector record.
func (h HSpec) Validate() error {
	h.normalize()
	return h.validate()
}

func (d *DownstreamAuth) validate() error {
	switch d.Type {
	case "", "none":
	case "static-bearer", "signed-assertion":
		if strings.TrimSpace(d.SecretEnv) == "" {
			return fmt.Errorf("downstream_auth.secret_env required for %s", d.Type)
		}
	default:
		return fmt.Errorf("downstream_auth.type %q invalid", d.Type)
	}
	if d.TTLSeconds < 0 {
		return errors.New("downstream_auth.ttl_seconds must be >= 0")
	}
	return nil
}

// Validate checks downstream auth loaded outside the manifest.
func (d DownstreamAuth) Validate() error { return d.validate() }

func (c *Config) validatePolicy() error {
	p := c.Policy
	if p.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	if p.MaxResponseBytes < 0 {
		return errors.New("policy.max_response_bytes must be >= 0")
	}
	if rl := p.RateLimit; rl != nil {
		if rl.RPS < 0 || rl.Burst < 0 {
			return errors.New("policy.rate_limit values must be >= 0")
		}
	}
	return nil
}

func (c *Config) validateDIY() error {
	if !c.DIY.Enabled {
		return nil
	}
	c.DIY.Handler.normalize()
	if err := c.DIY.Handler.validate(); err != nil {
		return fmt.Errorf("diy: %w", err)
	}
	return nil
}

var connectorIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func (c *Config) validateConnectors() error {
	seen := make(map[string]struct{}, len(c.Connectors))
	for i := range c.Connectors {
		cn := &c.Connectors[i]
		cn.ID = strings.TrimSpace(cn.ID)
		if cn.ID == "" {
			return fmt.Errorf("connector %d: id is required", i)
		}
		if !connectorIDPattern.MatchString(cn.ID) {
			return fmt.Errorf("connector %d: id %q has invalid characters", i, cn.ID)
		}
		if _, dup := seen[cn.ID]; dup {
			return fmt.Errorf("connector %q declared twice", cn.ID)
		}
		seen[cn.ID] = struct{}{}

		cn.Handler.normalize()
		if err := cn.Handler.validate(); err != nil {
			return fmt.Errorf("connector %q: %w", cn.ID, err)
		}
		if cn.DownAuth != nil {
			if err := cn.DownAuth.validate(); err != nil {
				return fmt.Errorf("connector %q: %w", cn.ID, err)
			}
		}
	}
	return nil
}

func (r *Registry) validate() error {
	if r.Backend == "" {
		r.Backend = RegistryStatic
	}
	switch r.Backend {
	case RegistryStatic:
	case RegistryRedis:
		if r.Redis == nil || strings.TrimSpace(r.Redis.Addr) == "" {
			return errors.New("registry.redis.addr required for redis backend")
		}
		if r.Redis.KeyPrefix == "" {
			r.Redis.KeyPrefix = "extension:connector:"
		}
	case RegistryPostgres:
		if r.Postgres == nil {
			r.Postgres = &PostgresSpec{}
		}
		if r.Postgres.DSNEnv == "" {
			r.Postgres.DSNEnv = "EXTENSION_REGISTRY_DSN"
		}
		if r.Postgres.Table == "" {
			r.Postgres.Table = "extension_connectors"
		}
		if !connectorIDPattern.MatchString(r.Postgres.Table) {
			return fmt.Errorf("registry.postgres.table %q invalid", r.Postgres.Table)
		}
	default:
		return fmt.Errorf("registry.backend %q invalid", r.Backend)
	}
	return nil
}
