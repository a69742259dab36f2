// Package metrics defines and registers the custom Prometheus metrics of the
// connaissance-client API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "connaissance_client"

// ── Client metrics ────────────────────────────────────────────────────────────

// ClientsWrittenTotal counts successful mutations.
// Label:
//   - operation: "create", "update", "adresse", "situation" or "delete"
var ClientsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_written_total",
		Help:      "Total number of client records written, by operation.",
	},
	[]string{"operation"},
)

// ValidationFailuresTotal counts rejected fields.
// Label:
//   - field: wire name of the violated field (e.g. "codePostal")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of field violations reported to callers.",
	},
	[]string{"field"},
)

// RecordValidationFailures counts one failure per violated field.
func RecordValidationFailures(fields []string) {
	for _, field := range fields {
		ValidationFailuresTotal.WithLabelValues(field).Inc()
	}
}

// StoreOperationDuration measures record store calls.
// Label:
//   - operation: repository method name
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of record store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Postal code metrics ───────────────────────────────────────────────────────

// PostalCodeChecksTotal counts postal code verifications.
// Label:
//   - result: "valid", "invalid", "fallback" or "cached"
var PostalCodeChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "postal_code_checks_total",
		Help:      "Total number of postal code checks, by result.",
	},
	[]string{"result"},
)

// ── Address event metrics ─────────────────────────────────────────────────────

// AddressEventsTotal counts address events leaving the dispatcher.
// Label:
//   - result: "published" or "failed"
var AddressEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "address_events_total",
		Help:      "Total number of address change events, by delivery result.",
	},
	[]string{"result"},
)

// AddressEventsQueueDepth tracks pending events per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var AddressEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "address_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
