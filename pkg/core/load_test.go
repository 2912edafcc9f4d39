package core

import (
	"os"
	"path/filepath"
	"testing"

	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlManifest = `
[diy]
enabled = true
[diy.handler]
type = "inproc"
name = "diy"

[[connector]]
id = "slack"
[connector.handler]
type = "http"
url = "https://slack-ext.internal/fn"
[connector.downstream_auth]
type = "static-bearer"
secret_env = "SLACK_CONNECTOR_TOKEN"

[[connector]]
id = "legacy"
disabled = true
[connector.handler]
type = "inproc"
name = "legacy"

[policy]
max_response_bytes = 1048576
[policy.rate_limit]
rps = 50
burst = 100
`

const yamlManifest = `
diy:
  enabled: false
connectors:
  - id: jira
    handler:
      type: inproc
      name: jira
registry:
  backend: redis
  redis:
    addr: localhost:6379
policy:
  timeout_ms: 5000
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfigTOML(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "manifest.toml", tomlManifest))
	require.NoError(t, err)

	assert.True(t, cfg.DIY.Enabled)
	assert.Equal(t, "diy", cfg.DIY.Handler.Name)
	require.Len(t, cfg.Connectors, 2)
	assert.Equal(t, manifest.HandlerHTTP, cfg.Connectors[0].Handler.Type)
	require.NotNil(t, cfg.Connectors[0].DownAuth)
	assert.Equal(t, "SLACK_CONNECTOR_TOKEN", cfg.Connectors[0].DownAuth.SecretEnv)
	assert.True(t, cfg.Connectors[1].Disabled)
	assert.Equal(t, int64(1048576), cfg.Policy.MaxResponseBytes)
	assert.Equal(t, manifest.DefaultTimeoutMS, cfg.Policy.TimeoutMS)
	require.NotNil(t, cfg.Policy.RateLimit)
	assert.Equal(t, 100, cfg.Policy.RateLimit.Burst)
	assert.Equal(t, manifest.RegistryStatic, cfg.Registry.Backend)
}

func TestLoadConfigYAML(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "manifest.yaml", yamlManifest))
	require.NoError(t, err)

	assert.False(t, cfg.DIY.Enabled)
	require.Len(t, cfg.Connectors, 1)
	assert.Equal(t, "jira", cfg.Connectors[0].ID)
	assert.Equal(t, manifest.RegistryRedis, cfg.Registry.Backend)
	assert.Equal(t, "extension:connector:", cfg.Registry.Redis.KeyPrefix)
	assert.Equal(t, 5000, cfg.Policy.TimeoutMS)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "bad.toml", "[diy\n"))
	assert.ErrorContains(t, err, "parse")

	_, err = LoadConfig(writeFile(t, "invalid.toml", "[[connector]]\nid = \"x\"\n"))
	assert.ErrorContains(t, err, "validate")
}
