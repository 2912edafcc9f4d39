package core

import (
	"context"
	"errors"

	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"go.uber.org/zap"
)

// TargetBuilder turns a handler spec into something that can be invoked.
type TargetBuilder interface {
	Build(spec manifest.HSpec) (extension.Target, error)
}

// ExecutionTarget is a resolved destination. Connector is nil for DIY.
type ExecutionTarget struct {
	Kind      TargetKind
	Connector *connector.Connector
	Target    extension.Target
}

// Label names the target for logs and metrics.
func (t ExecutionTarget) Label() string {
	if t.Connector != nil {
		return "connector:" + t.Connector.ID
	}
	return string(t.Kind)
}

// Resolver maps a TargetSpec to an ExecutionTarget. DIY is nil when the
// deployment has no DIY server.
type Resolver struct {
	DIY        extension.Target
	Connectors connector.Registry
	Targets    TargetBuilder
	Log        *zap.Logger
}

func (rs *Resolver) Resolve(ctx context.Context, spec TargetSpec) (ExecutionTarget, *envelope.Error) {
	switch spec.Kind {
	case TargetDIY:
		if rs.DIY == nil {
			return ExecutionTarget{}, envelope.DIYNotConfigured()
		}
		return ExecutionTarget{Kind: TargetDIY, Target: rs.DIY}, nil

	case TargetConnector:
		if rs.Connectors == nil || rs.Targets == nil {
			return ExecutionTarget{}, envelope.MissingRouting()
		}
		c, err := rs.Connectors.Find(ctx, spec.ConnectorID)
		if errors.Is(err, connector.ErrNotFound) {
			return ExecutionTarget{}, envelope.MissingRouting()
		}
		if errors.Is(err, connector.ErrInvalidRecord) {
			rs.logger().Warn("connector not runnable", zap.String("connector", spec.ConnectorID), zap.Error(err))
			return ExecutionTarget{}, envelope.MissingRouting()
		}
		if err != nil {
			rs.logger().Error("connector lookup failed", zap.String("connector", spec.ConnectorID), zap.Error(err))
			return ExecutionTarget{}, envelope.LookupFailed()
		}
		t, err := rs.Targets.Build(c.Handler)
		if err != nil {
			rs.logger().Warn("connector not runnable", zap.String("connector", c.ID), zap.Error(err))
			return ExecutionTarget{}, envelope.MissingRouting()
		}
		return ExecutionTarget{Kind: TargetConnector, Connector: &c, Target: t}, nil
	}
	return ExecutionTarget{}, envelope.MissingRouting()
}

func (rs *Resolver) logger() *zap.Logger {
	if rs.Log == nil {
		return zap.NewNop()
	}
	return rs.Log
}
