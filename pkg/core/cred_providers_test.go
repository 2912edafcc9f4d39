package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conn(da *manifest.DownstreamAuth) connector.Connector {
	return connector.Connector{ID: "slack", DownAuth: da}
}

func TestDownAuthNone(t *testing.T) {
	creds, err := DownAuthProvider{}.Issue(context.Background(), conn(nil), extension.Call{})
	require.NoError(t, err)
	assert.Empty(t, creds.HeaderName)

	creds, err = DownAuthProvider{}.Issue(context.Background(), conn(&manifest.DownstreamAuth{Type: "none"}), extension.Call{})
	require.NoError(t, err)
	assert.Empty(t, creds.HeaderValue)
}

func TestStaticBearer(t *testing.T) {
	t.Setenv("SLACK_CONNECTOR_TOKEN", "abc")
	creds, err := DownAuthProvider{}.Issue(context.Background(),
		conn(&manifest.DownstreamAuth{Type: "static-bearer", SecretEnv: "SLACK_CONNECTOR_TOKEN"}), extension.Call{})
	require.NoError(t, err)
	assert.Equal(t, "Authorization", creds.HeaderName)
	assert.Equal(t, "Bearer abc", creds.HeaderValue)

	t.Setenv("SLACK_CONNECTOR_TOKEN", "Bearer already")
	creds, err = StaticBearerProvider{HeaderName: "X-Connector-Auth", EnvVar: "SLACK_CONNECTOR_TOKEN"}.
		Issue(context.Background(), conn(nil), extension.Call{})
	require.NoError(t, err)
	assert.Equal(t, "X-Connector-Auth", creds.HeaderName)
	assert.Equal(t, "Bearer already", creds.HeaderValue)

	t.Setenv("SLACK_CONNECTOR_TOKEN", "")
	_, err = StaticBearerProvider{EnvVar: "SLACK_CONNECTOR_TOKEN"}.Issue(context.Background(), conn(nil), extension.Call{})
	assert.Error(t, err)
}

func TestSignedAssertion(t *testing.T) {
	t.Setenv("SLACK_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
	now := time.Now().Truncate(time.Second)
	p := SignedAssertionProvider{EnvVar: "SLACK_SIGNING_KEY", TTL: 30 * time.Second, Now: func() time.Time { return now }}

	call := extension.Call{
		Function: "connectorInstallerFunction",
		Type:     extension.CategoryInstaller,
		Identity: extension.Identity{IntegrationID: "int-1", BearerToken: "never-in-claims"},
	}
	creds, err := p.Issue(context.Background(), conn(nil), call)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(creds.HeaderValue, "Bearer "))

	var claims AssertionClaims
	tok, err := jwt.ParseWithClaims(strings.TrimPrefix(creds.HeaderValue, "Bearer "), &claims,
		func(*jwt.Token) (any, error) { return []byte("0123456789abcdef0123456789abcdef"), nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience("slack"),
		jwt.WithIssuer(AssertionIssuer),
	)
	require.NoError(t, err)
	require.True(t, tok.Valid)
	assert.Equal(t, "slack", claims.Subject)
	assert.Equal(t, "connectorInstallerFunction", claims.Function)
	assert.Equal(t, "installer", claims.Type)
	assert.Equal(t, "int-1", claims.IntegrationID)
	assert.True(t, now.Add(30*time.Second).Equal(claims.ExpiresAt.Time))
	assert.NotContains(t, creds.HeaderValue, "never-in-claims")
}

func TestSignedAssertionNeedsSecret(t *testing.T) {
	t.Setenv("MISSING_KEY", "")
	_, err := DownAuthProvider{}.Issue(context.Background(),
		conn(&manifest.DownstreamAuth{Type: "signed-assertion", SecretEnv: "MISSING_KEY"}), extension.Call{})
	assert.Error(t, err)
}

func TestDownAuthUnknownType(t *testing.T) {
	_, err := DownAuthProvider{}.Issue(context.Background(), conn(&manifest.DownstreamAuth{Type: "kerberos"}), extension.Call{})
	assert.Error(t, err)
}
