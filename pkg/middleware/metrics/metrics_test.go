package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectCountsKnownAndUnmatched(t *testing.T) {
	AddKnownPaths("/function")
	h := Collect()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("422", "/function", "POST"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/function", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("422", "/function", "POST")))

	beforeUnmatched := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("422", "unmatched", "GET"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/x", nil))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("422", "unmatched", "GET")))
}

func TestCollectSkipsScrapes(t *testing.T) {
	h := Collect()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	before := testutil.ToFloat64(totalHttpRequests.WithLabelValues("200", "GET"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, before, testutil.ToFloat64(totalHttpRequests.WithLabelValues("200", "GET")))
}

func TestObserveInvocationBoundsLabels(t *testing.T) {
	ObserveInvocation("whatever", "connector:slack", "Error", 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(invocations.WithLabelValues("other", "connector:slack", "Error")))

	ObserveInvocation(extension.CategoryInstaller, "", "ok", 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(invocations.WithLabelValues("installer", "none", "ok")))
}

func TestPromHandlerExposesCollectors(t *testing.T) {
	ObserveReply(128)
	rec := httptest.NewRecorder()
	NewPromHttpHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "extension_reply_bytes"))
}
