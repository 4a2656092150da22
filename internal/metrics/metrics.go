// Package metrics exposes the Prometheus instruments of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PaymentVerifications counts verification attempts by outcome
	// (verified, failed, error).
	PaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Payment verification attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// RegistryProxyRequests counts relayed phone-registry calls by upstream status.
	RegistryProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_proxy_requests_total",
			Help: "Requests relayed to the phone registry by upstream status.",
		},
		[]string{"endpoint", "status"},
	)

	// ReportsGenerated counts background report runs by result.
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Background report generations by result.",
		},
		[]string{"type", "result"},
	)
)
