// Package metrics exposes Prometheus collectors for Lob API traffic and
// webhook deliveries.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestDuration is the latency of Lob API calls in seconds.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lobster_api_request_duration_seconds",
			Help:    "Lob API request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		[]string{"method", "path", "status"},
	)

	// APIErrors counts Lob API calls that failed, by status class.
	APIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobster_api_errors_total",
			Help: "Total number of failed Lob API requests",
		},
		[]string{"method", "path", "class"}, // class: 4xx, 5xx, transport
	)

	// WebhookEvents counts received webhook events.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobster_webhook_events_total",
			Help: "Total number of webhook events received",
		},
		[]string{"event_type", "status"}, // status: accepted, rejected, failed
	)

	// VerificationResults counts address verifications by deliverability.
	VerificationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobster_verification_results_total",
			Help: "Total number of address verifications by deliverability",
		},
		[]string{"deliverability"},
	)
)

// RecordAPIRequest records one API exchange. status is 0 for transport
// failures.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequestDuration.WithLabelValues(method, path, label).Observe(duration.Seconds())

	switch {
	case status == 0:
		APIErrors.WithLabelValues(method, path, "transport").Inc()
	case status >= 500:
		APIErrors.WithLabelValues(method, path, "5xx").Inc()
	case status >= 400:
		APIErrors.WithLabelValues(method, path, "4xx").Inc()
	}
}

// IncrementWebhookEvent counts a webhook delivery.
func IncrementWebhookEvent(eventType, status string) {
	WebhookEvents.WithLabelValues(eventType, status).Inc()
}

// IncrementVerification counts a verification outcome.
func IncrementVerification(deliverability string) {
	VerificationResults.WithLabelValues(deliverability).Inc()
}

// resourceID matches Lob ids such as psc_5c002b86ce47537a. Collection names
// like bank_accounts carry no digit and are left alone.
var resourceID = regexp.MustCompile(`/[a-z]+_[0-9a-zA-Z]*[0-9][0-9a-zA-Z]*`)

// NormalizePath replaces resource ids with :id to keep label cardinality
// bounded.
func NormalizePath(path string) string {
	return resourceID.ReplaceAllString(path, "/:id")
}

// Transport is an http.RoundTripper that records every request.
type Transport struct {
	// Base is the wrapped transport; nil means http.DefaultTransport.
	Base http.RoundTripper
	// Prefix is stripped from URL paths before labelling, e.g. "/v1".
	Prefix string
}

// NewTransport wraps base with request instrumentation.
func NewTransport(base http.RoundTripper, prefix string) *Transport {
	return &Transport{Base: base, Prefix: prefix}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	path := NormalizePath(strings.TrimPrefix(req.URL.Path, t.Prefix))

	start := time.Now()
	resp, err := base.RoundTrip(req)
	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	RecordAPIRequest(req.Method, path, status, time.Since(start))
	return resp, err
}
