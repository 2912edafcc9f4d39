package metrics

import (
	"net/http"
	"strings"
	"sync"
)

var (
	skipMu    sync.RWMutex
	skipPaths = map[string]struct{}{"/metrics": {}, "/ping": {}}

	normMu         sync.RWMutex
	knownPaths     = map[string]struct{}{}
	pathNormalizer = defaultNormalizer
)

// AddMetricsSkipPaths extends the skip list (default: "/metrics", "/ping").
func AddMetricsSkipPaths(paths ...string) {
	skipMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			skipPaths[p] = struct{}{}
		}
	}
	skipMu.Unlock()
}

// AddKnownPaths registers routes whose path is used verbatim as the uri label.
// Any other path is labelled "unmatched" so scanners cannot inflate cardinality.
func AddKnownPaths(paths ...string) {
	normMu.Lock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			knownPaths[p] = struct{}{}
		}
	}
	normMu.Unlock()
}

// SetPathNormalizer replaces the uri label function.
func SetPathNormalizer(fn func(*http.Request) string) {
	if fn == nil {
		return
	}
	normMu.Lock()
	pathNormalizer = fn
	normMu.Unlock()
}

func defaultNormalizer(r *http.Request) string {
	if _, ok := knownPaths[r.URL.Path]; ok {
		return r.URL.Path
	}
	return "unmatched"
}

func isSkipPath(r *http.Request) bool {
	skipMu.RLock()
	_, ok := skipPaths[r.URL.Path]
	skipMu.RUnlock()
	return ok
}

func normalizePath(r *http.Request) string {
	normMu.RLock()
	defer normMu.RUnlock()
	return pathNormalizer(r)
}
