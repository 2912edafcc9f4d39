// Package target builds the execution targets named by handler specs.
package target

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
)

// Builder turns handler specs into targets. It holds only shared, read-only
// dependencies; every Build returns a fresh target.
type Builder struct {
	Client  *http.Client
	Modules *extension.Modules
}

func NewBuilder(modules *extension.Modules) *Builder {
	return &Builder{
		Client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        64,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Modules: modules,
	}
}

func (b *Builder) Build(spec manifest.HSpec) (extension.Target, error) {
	switch spec.Type {
	case manifest.HandlerInproc:
		if b.Modules == nil || !b.Modules.Has(spec.Name) {
			return nil, fmt.Errorf("module %q not registered", spec.Name)
		}
		return Inproc{Module: spec.Name, Modules: b.Modules}, nil
	case manifest.HandlerHTTP:
		return HTTP{URL: spec.URL, Headers: spec.Headers, Client: b.Client}, nil
	default:
		return nil, fmt.Errorf("unknown handler type %q", spec.Type)
	}
}
