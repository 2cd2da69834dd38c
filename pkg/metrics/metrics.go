package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, labelled by route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// ObserveRequest records one served request.
func (h *HTTPMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	h.requests.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Inc()
	h.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route)).Observe(elapsed.Seconds())
}

// ClaimMetrics counts voucher claim outcomes; the out_of_stock series is the
// one worth alerting on when a campaign undersizes its quota.
type ClaimMetrics struct {
	results *prometheus.CounterVec
}

// NewClaimMetrics registers the claim outcome counter on the provided registerer.
func NewClaimMetrics(reg prometheus.Registerer) *ClaimMetrics {
	if reg == nil {
		return &ClaimMetrics{}
	}
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "voucher_claim_results_total",
		Help: "Voucher claim attempts by outcome.",
	}, []string{"result"})
	reg.MustRegister(results)
	return &ClaimMetrics{results: results}
}

// IncResult increments the counter for the given claim outcome.
func (c *ClaimMetrics) IncResult(result string) {
	if c == nil || c.results == nil {
		return
	}
	c.results.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
