package goKeep

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goKeep/chunk"
	"github.com/MrEthical07/goKeep/substrate"
)

// Builder defines a public type used by goKeep APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	redis redis.UniversalClient
	sub   substrate.Substrate

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis wires the keeper to a Redis-backed substrate. The per-entry
// cap from Config.Storage.MaxEntrySize is applied to it at Build time.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSubstrate wires the keeper to a caller-supplied substrate, replacing
// the Redis default. Useful for tests and for embedding inside hosts with
// their own bounded stores.
func (b *Builder) WithSubstrate(sub substrate.Substrate) *Builder {
	b.sub = sub
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Keeper, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	sub := b.sub
	if sub == nil {
		if b.redis == nil {
			return nil, errors.New("no substrate configured: use WithRedis or WithSubstrate")
		}
		sub = substrate.NewRedis(b.redis, b.config.Storage.MaxEntrySize)
	}

	avatars := chunk.NewStore(sub, chunk.Config{
		WarnSize:        b.config.Storage.WarnSize,
		ChunkThreshold:  b.config.Storage.ChunkThreshold,
		ChunkSize:       b.config.Storage.ChunkSize,
		OrphanScanLimit: b.config.Storage.OrphanScanLimit,
		Fallback:        avatarFallback,
	})

	b.built = true

	return &Keeper{
		config:  b.config,
		sub:     sub,
		avatars: avatars,
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics: newMetrics(b.config.Metrics.Enabled),
	}, nil
}
