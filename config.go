package goKeep

import (
	"errors"
	"fmt"
	"maps"
)

// Config defines a public type used by goKeep APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Storage    StorageConfig
	Roster     RosterConfig
	Validation ValidationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by goKeep APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	// TTLDays is the substrate expiry applied to every account entry.
	TTLDays int
	// MaxEntrySize is the per-entry cap handed to the Redis substrate
	// when the keeper is built via WithRedis. 0 leaves entries uncapped.
	MaxEntrySize int
	// WarnSize triggers a log warning for single entries above it.
	WarnSize int
	// ChunkThreshold is the largest value stored as one entry; bigger
	// values are split by the chunk store.
	ChunkThreshold int
	// ChunkSize is the per-piece size for split values.
	ChunkSize int
	// OrphanScanLimit bounds chunk cleanup when the count entry is gone.
	OrphanScanLimit int
}

/*
====================================
ROSTER CONFIG
====================================
*/

// RosterConfig defines a public type used by goKeep APIs.
//
// RosterConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RosterConfig struct {
	// Limit caps the most-recently-used roster. Adding an account beyond
	// the cap drops the least-recently-used name from the roster without
	// deleting its stored data.
	Limit int
}

/*
====================================
VALIDATION CONFIG
====================================
*/

// ValidationConfig defines a public type used by goKeep APIs.
//
// ValidationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ValidationConfig struct {
	// LocalExpiryCheck lets ValidateAll evict sessions whose token parses
	// as a JWT with an expiry in the past, without a remote round-trip.
	// The parse is unverified; the authoritative decision stays remote.
	LocalExpiryCheck bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goKeep APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goKeep APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			TTLDays:         7,
			MaxEntrySize:    0,
			WarnSize:        3000,
			ChunkThreshold:  3500,
			ChunkSize:       3000,
			OrphanScanLimit: 10,
		},
		Roster: RosterConfig{
			Limit: 2,
		},
		Validation: ValidationConfig{
			LocalExpiryCheck: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; copy is enough. Kept as a
	// function so future reference fields get deep-copied in one place.
	return cfg
}

func validateConfig(cfg Config) error {
	var errs []error

	if cfg.Storage.TTLDays < 0 {
		errs = append(errs, fmt.Errorf("storage: TTLDays %d is negative", cfg.Storage.TTLDays))
	}
	if cfg.Storage.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("storage: ChunkSize %d must be positive", cfg.Storage.ChunkSize))
	}
	if cfg.Storage.ChunkThreshold <= 0 {
		errs = append(errs, fmt.Errorf("storage: ChunkThreshold %d must be positive", cfg.Storage.ChunkThreshold))
	}
	if cfg.Storage.ChunkSize > cfg.Storage.ChunkThreshold {
		errs = append(errs, fmt.Errorf("storage: ChunkSize %d exceeds ChunkThreshold %d", cfg.Storage.ChunkSize, cfg.Storage.ChunkThreshold))
	}
	if cfg.Storage.WarnSize > cfg.Storage.ChunkThreshold {
		errs = append(errs, fmt.Errorf("storage: WarnSize %d exceeds ChunkThreshold %d", cfg.Storage.WarnSize, cfg.Storage.ChunkThreshold))
	}
	if cfg.Storage.MaxEntrySize > 0 && cfg.Storage.ChunkSize > cfg.Storage.MaxEntrySize {
		errs = append(errs, fmt.Errorf("storage: ChunkSize %d exceeds MaxEntrySize %d", cfg.Storage.ChunkSize, cfg.Storage.MaxEntrySize))
	}
	if cfg.Storage.OrphanScanLimit <= 0 {
		errs = append(errs, fmt.Errorf("storage: OrphanScanLimit %d must be positive", cfg.Storage.OrphanScanLimit))
	}
	if cfg.Roster.Limit < 1 {
		errs = append(errs, fmt.Errorf("roster: Limit %d must be at least 1", cfg.Roster.Limit))
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("audit: BufferSize %d must be positive when audit is enabled", cfg.Audit.BufferSize))
	}

	return errors.Join(errs...)
}

// cloneAccountData shallow-copies account data so the keeper never
// mutates a caller's map.
func cloneAccountData(data AccountData) AccountData {
	if data == nil {
		return nil
	}
	out := make(AccountData, len(data))
	maps.Copy(out, data)
	return out
}
