// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

var (
	// RefreshTotal tracks refresh cycle outcomes.
	// Labels:
	//   - result: committed, aborted, failed, skipped
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Total number of refresh cycles by outcome",
		},
		[]string{"result"},
	)

	// SnapshotLoadsTotal tracks reads against the snapshot store.
	// Labels:
	//   - status: hit, miss, error
	SnapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Total number of snapshot store loads",
		},
		[]string{"status"},
	)

	// SingleflightRequestsTotal tracks refresh coalescing behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight refresh requests",
		},
		[]string{"result"},
	)
)

// Refresh result constants.
const (
	RefreshCommitted = "committed"
	RefreshAborted   = "aborted"
	RefreshFailed    = "failed"
	RefreshSkipped   = "skipped"
)

// Snapshot load status constants.
const (
	LoadStatusHit   = "hit"
	LoadStatusMiss  = "miss"
	LoadStatusError = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
