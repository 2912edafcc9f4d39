package core

import (
	"fmt"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"go.uber.org/zap"
)

// GatewayDeps are the collaborators a Gateway is built from.
type GatewayDeps struct {
	Auth       Authenticator
	Connectors connector.Registry
	Targets    TargetBuilder
	Creds      CredentialsProvider // default: DownAuthProvider
	Log        *zap.Logger
}

// NewGateway builds a gateway for a validated manifest. An authenticator is
// required and an enabled DIY handler must be buildable up front.
func NewGateway(cfg manifest.Config, d GatewayDeps) (*Gateway, error) {
	if d.Auth == nil {
		return nil, fmt.Errorf("gateway: no authenticator")
	}
	if d.Targets == nil {
		return nil, fmt.Errorf("gateway: no target builder")
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	creds := d.Creds
	if creds == nil {
		creds = DownAuthProvider{}
	}

	rs := &Resolver{Connectors: d.Connectors, Targets: d.Targets, Log: log}
	if cfg.DIY.Enabled {
		t, err := d.Targets.Build(cfg.DIY.Handler)
		if err != nil {
			return nil, fmt.Errorf("gateway: diy handler: %w", err)
		}
		rs.DIY = t
	}

	return &Gateway{
		Auth:     d.Auth,
		Resolver: rs,
		Invoker:  &Invoker{Creds: creds, Log: log},
		Guard:    Guard{DefaultLimit: cfg.Policy.MaxResponseBytes},
		Timeout:  time.Duration(cfg.Policy.TimeoutMS) * time.Millisecond,
		Log:      log,
	}, nil
}
