// Package metrics defines and registers all custom Prometheus metrics for the
// HBnB API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hbnb"

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsCreatedTotal counts records persisted through the API.
// Label:
//   - kind: the record type (e.g. "State", "Place")
var RecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of records created, by type.",
	},
	[]string{"kind"},
)

// RecordsDeletedTotal counts deleted records, cascaded children included.
// Label:
//   - kind: the record type
var RecordsDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_deleted_total",
		Help:      "Total number of records deleted, by type, including cascaded deletes.",
	},
	[]string{"kind"},
)

// ── Search metrics ────────────────────────────────────────────────────────────

// PlacesSearchResults observes how many places a search returned.
var PlacesSearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "places_search_results",
		Help:      "Number of places returned by places_search.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// StorageCommitDuration measures how long a session commit takes.
// Label:
//   - backend: "file", "db" or "mongo"
var StorageCommitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storage_commit_duration_seconds",
		Help:      "Duration of storage session commits.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend"},
)

// ── Idempotency metrics ───────────────────────────────────────────────────────

// IdempotentReplaysTotal counts create requests answered from a stored response.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests replayed from a stored response.",
	},
)
