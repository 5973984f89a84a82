package goKeep

import (
	"sync"
	"time"

	"github.com/MrEthical07/goKeep/chunk"
	"github.com/MrEthical07/goKeep/substrate"
)

// Keeper defines a public type used by goKeep APIs.
//
// Keeper instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Keeper struct {
	// mu serializes every operation. The substrate itself is one logical
	// store; holding the lock for a whole validation pass guarantees an
	// eviction can never be observed mid-flight by a concurrent read.
	mu sync.Mutex

	config  Config
	sub     substrate.Substrate
	avatars *chunk.Store
	audit   *auditDispatcher
	metrics *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (k *Keeper) Close() {
	if k == nil {
		return
	}
	if k.audit != nil {
		k.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (k *Keeper) AuditDropped() uint64 {
	if k == nil || k.audit == nil {
		return 0
	}
	return k.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (k *Keeper) MetricsSnapshot() MetricsSnapshot {
	if k == nil || k.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return k.metrics.Snapshot()
}

// entryTTL converts the configured day-based expiry into a substrate TTL.
// 0 days stores entries without expiry.
func (k *Keeper) entryTTL() time.Duration {
	return time.Duration(k.config.Storage.TTLDays) * 24 * time.Hour
}
