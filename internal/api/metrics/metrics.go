// Package metrics defines all custom Prometheus metrics for the lead
// distribution API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leaddist"

// UploadsTotal counts upload attempts by outcome.
// Label:
//   - result: "success", "rejected" (validation failure), or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of customer upload attempts, by result.",
	},
	[]string{"result"},
)

// CustomersDistributedTotal counts customer rows persisted and assigned to an
// agent across all successful uploads.
var CustomersDistributedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_distributed_total",
		Help:      "Total number of customer rows distributed to agents.",
	},
)

// UploadDuration measures how long a full upload takes, from parse to the
// final distribution projection.
var UploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_duration_seconds",
		Help:      "Duration of the upload-and-distribute pipeline.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AgentsCreatedTotal counts agents added to the roster.
var AgentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "agents_created_total",
		Help:      "Total number of agents created.",
	},
)
