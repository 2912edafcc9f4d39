package auth

import (
	"errors"
	"strings"

	"github.com/joeydtaylor/steeze-extension/pkg/config"
)

// DefaultHeader carries "Bearer <system token>".
const DefaultHeader = "Authorization"

// New returns a Middleware expecting token on the Authorization header.
func New(token string) (*Middleware, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("auth: system token is empty")
	}
	return &Middleware{token: []byte(token), header: DefaultHeader}, nil
}

// ProvideAuthentication wires the system token from the environment.
func ProvideAuthentication(cfg config.Env) (*Middleware, error) {
	return New(cfg.SystemToken)
}
