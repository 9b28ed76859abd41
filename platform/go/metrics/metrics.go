// Package metrics exposes the Prometheus instruments for gym resolution and
// provisioning. Collectors are registered on the default registry and served
// from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolveTotal counts connection-registry lookups by outcome (hit|miss).
	ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymgate",
		Name:      "registry_resolve_total",
		Help:      "Connection registry lookups by outcome.",
	}, []string{"outcome"})

	// ProvisionTotal counts provisioning attempts by stage and outcome.
	// Stages: create_database, attach. Outcomes: ok|error|skipped.
	ProvisionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymgate",
		Name:      "provision_total",
		Help:      "Gym provisioning attempts by stage and outcome.",
	}, []string{"stage", "outcome"})

	// RegisteredGyms tracks how many gyms currently have a live registry entry.
	RegisteredGyms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gymgate",
		Name:      "registered_gyms",
		Help:      "Gyms with a live connection registry entry.",
	})

	// RequestDuration observes HTTP handler latency by method and status class.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymgate",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)
