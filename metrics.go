package goKeep

import "sync/atomic"

// MetricID defines a public type used by goKeep APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricAccountStored is an exported constant or variable used by the account keeper.
	MetricAccountStored MetricID = iota
	// MetricAccountDeleted is an exported constant or variable used by the account keeper.
	MetricAccountDeleted
	// MetricAvatarFallback is an exported constant or variable used by the account keeper.
	MetricAvatarFallback
	// MetricRosterEviction is an exported constant or variable used by the account keeper.
	MetricRosterEviction
	// MetricValidationPassed is an exported constant or variable used by the account keeper.
	MetricValidationPassed
	// MetricValidationFailed is an exported constant or variable used by the account keeper.
	MetricValidationFailed
	// MetricValidationErrored is an exported constant or variable used by the account keeper.
	MetricValidationErrored

	metricCount
)

// Metrics holds the keeper's lock-free counters. All methods are safe for
// concurrent use; a nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

func newMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
