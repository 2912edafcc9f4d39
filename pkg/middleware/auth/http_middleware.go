package auth

import (
	"net/http"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
)

// Middleware rejects requests without the system credential. The /function
// pipeline calls Authenticate itself so that body validation runs first.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := m.Authenticate(r); err != nil {
				envelope.Write(w, envelope.From(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
