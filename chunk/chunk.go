package chunk

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/MrEthical07/goKeep/substrate"
)

// Marker is the value stored under the base key of a chunked entry.
const Marker = "chunked"

const (
	countSuffix = "_chunks"
	chunkSuffix = "_chunk_"

	defaultWarnSize        = 3000
	defaultChunkThreshold  = 3500
	defaultChunkSize       = 3000
	defaultOrphanScanLimit = 10
)

// Config tunes the chunking thresholds.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// WarnSize triggers a size warning log for direct entries above it.
	WarnSize int
	// ChunkThreshold is the largest value stored directly; anything
	// bigger is split.
	ChunkThreshold int
	// ChunkSize is the per-piece size for split values.
	ChunkSize int
	// OrphanScanLimit bounds the cleanup index scan used when the count
	// entry is missing or corrupt.
	OrphanScanLimit int
	// Fallback, when non-empty, is written under the base key after a
	// failed multi-entry write so callers never observe a partial value.
	Fallback string
}

// DefaultConfig returns the stock thresholds: warn at 3000, chunk above
// 3500, 3000-character pieces, orphan scans bounded at 10.
func DefaultConfig() Config {
	return Config{
		WarnSize:        defaultWarnSize,
		ChunkThreshold:  defaultChunkThreshold,
		ChunkSize:       defaultChunkSize,
		OrphanScanLimit: defaultOrphanScanLimit,
	}
}

// Store reads and writes possibly-oversized values over a substrate.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	sub substrate.Substrate
	cfg Config
}

// NewStore creates a chunking store over sub. Zero thresholds in cfg are
// replaced with their defaults.
func NewStore(sub substrate.Substrate, cfg Config) *Store {
	if cfg.WarnSize <= 0 {
		cfg.WarnSize = defaultWarnSize
	}
	if cfg.ChunkThreshold <= 0 {
		cfg.ChunkThreshold = defaultChunkThreshold
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.OrphanScanLimit <= 0 {
		cfg.OrphanScanLimit = defaultOrphanScanLimit
	}
	return &Store{sub: sub, cfg: cfg}
}

// SetLarge writes value under key, splitting it into chunk entries when it
// exceeds the chunking threshold. On a partial write failure the written
// pieces are torn down and the fallback sentinel (if configured) takes the
// base slot, so the value is never observable half-present; the original
// write error is still returned.
func (s *Store) SetLarge(ctx context.Context, key, value string, ttl time.Duration) error {
	if len(value) <= s.cfg.ChunkThreshold {
		if len(value) > s.cfg.WarnSize {
			log.Printf("goKeep: entry %q is %d chars, approaching the substrate entry cap", key, len(value))
		}
		if err := s.sub.Set(ctx, key, value, ttl); err != nil {
			s.rollback(ctx, key, 0, ttl)
			return fmt.Errorf("chunk store: direct write of %q: %w", key, err)
		}
		return nil
	}

	chunks := split(value, s.cfg.ChunkSize)

	if err := s.sub.Set(ctx, key, Marker, ttl); err != nil {
		s.rollback(ctx, key, 0, ttl)
		return fmt.Errorf("chunk store: marker write of %q: %w", key, err)
	}
	if err := s.sub.Set(ctx, key+countSuffix, strconv.Itoa(len(chunks)), ttl); err != nil {
		s.rollback(ctx, key, 0, ttl)
		return fmt.Errorf("chunk store: count write of %q: %w", key, err)
	}
	for i, piece := range chunks {
		if err := s.sub.Set(ctx, chunkKey(key, i), piece, ttl); err != nil {
			s.rollback(ctx, key, i, ttl)
			return fmt.Errorf("chunk store: chunk %d write of %q: %w", i, key, err)
		}
	}
	return nil
}

// GetLarge returns the value stored under key, reassembling chunked
// entries. A missing or unreadable chunk fails closed: the value reads as
// absent, never as a partial reconstruction.
func (s *Store) GetLarge(ctx context.Context, key string) (string, bool, error) {
	base, found, err := s.sub.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	if base != Marker {
		return base, true, nil
	}

	count, ok, err := s.chunkCount(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !ok {
		log.Printf("goKeep: chunked entry %q has no usable count entry, treating as absent", key)
		return "", false, nil
	}

	var value []byte
	for i := 0; i < count; i++ {
		piece, found, err := s.sub.Get(ctx, chunkKey(key, i))
		if err != nil {
			return "", false, err
		}
		if !found {
			log.Printf("goKeep: chunked entry %q missing chunk %d of %d, treating as absent", key, i, count)
			return "", false, nil
		}
		value = append(value, piece...)
	}
	return string(value), true, nil
}

// DeleteLarge removes the value under key together with its count entry
// and chunk pieces. The stored chunk count bounds the deletion exactly;
// without it the scan is limited to OrphanScanLimit indices.
func (s *Store) DeleteLarge(ctx context.Context, key string) error {
	count, ok, err := s.chunkCount(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		count = s.cfg.OrphanScanLimit
	}

	if err := s.sub.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.sub.Delete(ctx, key+countSuffix); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := s.sub.Delete(ctx, chunkKey(key, i)); err != nil {
			return err
		}
	}
	return nil
}

// chunkCount reads the authoritative count entry. ok is false when the
// entry is absent or does not parse as a positive integer.
func (s *Store) chunkCount(ctx context.Context, key string) (int, bool, error) {
	raw, found, err := s.sub.Get(ctx, key+countSuffix)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return 0, false, nil
	}
	return count, true, nil
}

// rollback tears down the pieces written so far and parks the fallback
// sentinel under the base key. Best-effort: the triggering write error is
// what the caller sees.
func (s *Store) rollback(ctx context.Context, key string, written int, ttl time.Duration) {
	for i := 0; i < written; i++ {
		_ = s.sub.Delete(ctx, chunkKey(key, i))
	}
	_ = s.sub.Delete(ctx, key+countSuffix)
	if s.cfg.Fallback != "" {
		if err := s.sub.Set(ctx, key, s.cfg.Fallback, ttl); err != nil {
			_ = s.sub.Delete(ctx, key)
		}
	} else {
		_ = s.sub.Delete(ctx, key)
	}
}

func chunkKey(key string, i int) string {
	return key + chunkSuffix + strconv.Itoa(i)
}

func split(value string, size int) []string {
	var chunks []string
	for start := 0; start < len(value); start += size {
		end := start + size
		if end > len(value) {
			end = len(value)
		}
		chunks = append(chunks, value[start:end])
	}
	return chunks
}
