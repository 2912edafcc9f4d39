// Package ratelimit enforces the manifest's policy.rate_limit on invocations.
package ratelimit

import (
	"net/http"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"golang.org/x/time/rate"
)

// Limiter is a process-wide token bucket.
type Limiter struct {
	l *rate.Limiter
}

// New returns nil when rl is nil or has no positive RPS; a nil Limiter allows everything.
func New(rl *manifest.RateLimit) *Limiter {
	if rl == nil || rl.RPS <= 0 {
		return nil
	}
	burst := rl.Burst
	if burst <= 0 {
		burst = rl.RPS
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(rl.RPS), burst)}
}

func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.l.Allow()
}

// Middleware answers 429 with the error envelope once the bucket is empty.
func (l *Limiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				envelope.Write(w, envelope.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
