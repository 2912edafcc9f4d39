// pkg/core/cred_providers.go
package core

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

// AssertionIssuer is the iss claim of signed connector assertions.
const AssertionIssuer = "steeze-extension"

type NoAuthProvider struct{}

func (NoAuthProvider) Issue(context.Context, connector.Connector, extension.Call) (DownstreamCredentials, error) {
	return DownstreamCredentials{}, nil
}

// StaticBearerProvider sends a fixed bearer token read from an env var.
type StaticBearerProvider struct {
	HeaderName string // default: "Authorization"
	EnvVar     string
}

func (p StaticBearerProvider) Issue(_ context.Context, _ connector.Connector, _ extension.Call) (DownstreamCredentials, error) {
	h := p.HeaderName
	if h == "" {
		h = "Authorization"
	}
	val := strings.TrimSpace(os.Getenv(p.EnvVar))
	if val == "" {
		return DownstreamCredentials{}, fmt.Errorf("static-bearer: %s is empty", p.EnvVar)
	}
	if !strings.HasPrefix(val, "Bearer ") {
		val = "Bearer " + val
	}
	return DownstreamCredentials{HeaderName: h, HeaderValue: val}, nil
}

// AssertionClaims identify the call a signed assertion was minted for.
type AssertionClaims struct {
	jwt.RegisteredClaims
	Function      string `json:"fn"`
	Type          string `json:"typ,omitempty"`
	IntegrationID string `json:"iid,omitempty"`
}

// SignedAssertionProvider mints a short-lived HS256 JWT per call, so a
// connector can verify the call came through this gateway.
type SignedAssertionProvider struct {
	HeaderName string // default: "Authorization"
	EnvVar     string // holds the HMAC secret
	Audience   string // default: connector id
	TTL        time.Duration
	Now        func() time.Time
}

func (p SignedAssertionProvider) Issue(_ context.Context, c connector.Connector, call extension.Call) (DownstreamCredentials, error) {
	secret := os.Getenv(p.EnvVar)
	if secret == "" {
		return DownstreamCredentials{}, fmt.Errorf("signed-assertion: %s is empty", p.EnvVar)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	aud := p.Audience
	if aud == "" {
		aud = c.ID
	}
	issued := now()
	claims := AssertionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    AssertionIssuer,
			Subject:   c.ID,
			Audience:  jwt.ClaimStrings{aud},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
		Function:      call.Function,
		Type:          string(call.Type),
		IntegrationID: call.Identity.IntegrationID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return DownstreamCredentials{}, fmt.Errorf("signed-assertion: %w", err)
	}
	h := p.HeaderName
	if h == "" {
		h = "Authorization"
	}
	return DownstreamCredentials{HeaderName: h, HeaderValue: "Bearer " + signed}, nil
}

// DownAuthProvider picks a provider from the connector's downstream_auth.
type DownAuthProvider struct{}

func (DownAuthProvider) Issue(ctx context.Context, c connector.Connector, call extension.Call) (DownstreamCredentials, error) {
	da := c.DownAuth
	if da == nil {
		return NoAuthProvider{}.Issue(ctx, c, call)
	}
	switch da.Type {
	case "", "none":
		return NoAuthProvider{}.Issue(ctx, c, call)
	case "static-bearer":
		return StaticBearerProvider{HeaderName: da.Header, EnvVar: da.SecretEnv}.Issue(ctx, c, call)
	case "signed-assertion":
		return SignedAssertionProvider{
			HeaderName: da.Header,
			EnvVar:     da.SecretEnv,
			Audience:   da.Audience,
			TTL:        time.Duration(da.TTLSeconds) * time.Second,
		}.Issue(ctx, c, call)
	}
	return DownstreamCredentials{}, fmt.Errorf("downstream auth type %q unsupported", da.Type)
}
