// core/cred.go
package core

import (
	"context"

	"github.com/joeydtaylor/steeze-extension/pkg/connector"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

// DownstreamCredentials are headers the gateway presents to a connector.
type DownstreamCredentials struct {
	HeaderName  string
	HeaderValue string
	Extra       map[string]string
}

// CredentialsProvider issues credentials for one connector call.
type CredentialsProvider interface {
	Issue(ctx context.Context, c connector.Connector, call extension.Call) (DownstreamCredentials, error)
}
