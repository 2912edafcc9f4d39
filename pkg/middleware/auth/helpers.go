package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
)

// Authenticate checks the system credential on r. The comparison takes the
// same time for every wrong token of a given length.
func (m *Middleware) Authenticate(r *http.Request) error {
	got := tokenFromHeader(r.Header.Get(m.header))
	if got == "" || subtle.ConstantTimeCompare([]byte(got), m.token) != 1 {
		return envelope.Unauthorized()
	}
	return nil
}

// tokenFromHeader accepts "Bearer <token>" (scheme case-insensitive) or a bare token.
func tokenFromHeader(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return v
}
