// Package connector looks up installed connectors by id.
package connector

import (
	"context"
	"errors"
	"fmt"
	"sort"

	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
)

// ErrNotFound is returned when no installed connector has the requested id.
var ErrNotFound = errors.New("connector: not found")

// ErrInvalidRecord marks a stored connector whose handler or downstream auth
// cannot be decoded or does not validate.
var ErrInvalidRecord = errors.New("connector: invalid record")

// Connector is an installed connector and where its functions run.
type Connector struct {
	ID       string
	Handler  manifest.HSpec
	DownAuth *manifest.DownstreamAuth
}

// Registry finds connectors. Implementations must be safe for concurrent use.
type Registry interface {
	Find(ctx context.Context, id string) (Connector, error)
}

// Record is the stored form of a connector in external registries.
type Record struct {
	ID        string                   `json:"id"`
	Installed bool                     `json:"installed"`
	Handler   manifest.HSpec           `json:"handler"`
	DownAuth  *manifest.DownstreamAuth `json:"downstreamAuth,omitempty"`
}

// connector validates a stored record; uninstalled connectors do not exist.
func (r Record) connector(id string) (Connector, error) {
	if !r.Installed {
		return Connector{}, ErrNotFound
	}
	h := r.Handler.Normalized()
	if err := h.Validate(); err != nil {
		return Connector{}, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, id, err)
	}
	if r.DownAuth != nil {
		if err := r.DownAuth.Validate(); err != nil {
			return Connector{}, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, id, err)
		}
	}
	return Connector{ID: id, Handler: h, DownAuth: r.DownAuth}, nil
}

// Static serves the connectors declared in the manifest. It is read-only after construction.
type Static struct {
	byID map[string]Connector
}

func NewStatic(cs []manifest.Connector) *Static {
	s := &Static{byID: make(map[string]Connector, len(cs))}
	for _, c := range cs {
		if c.Disabled {
			continue
		}
		s.byID[c.ID] = Connector{ID: c.ID, Handler: c.Handler, DownAuth: c.DownAuth}
	}
	return s
}

func (s *Static) Find(_ context.Context, id string) (Connector, error) {
	c, ok := s.byID[id]
	if !ok {
		return Connector{}, ErrNotFound
	}
	return c, nil
}

// IDs lists installed connector ids in order.
func (s *Static) IDs() []string {
	out := make([]string, 0, len(s.byID))
	for id := range s.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
