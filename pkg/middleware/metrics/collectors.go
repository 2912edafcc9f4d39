package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "extension_invocations_total", Help: "function invocations by type, target kind and result code"},
		[]string{"type", "target", "code"},
	)

	invocationTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extension_invocation_seconds",
			Help:    "time spent waiting on the execution target.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	replyBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extension_reply_bytes",
			Help:    "size of successful extension replies.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		invocations,
		invocationTime,
		replyBytes,
	)
}
