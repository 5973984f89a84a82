package chunk

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goKeep/substrate"
)

func newChunkStoreTest(t *testing.T) (*Store, *substrate.Memory) {
	t.Helper()
	mem := substrate.NewMemory(0)
	return NewStore(mem, DefaultConfig()), mem
}

// failingSet wraps a substrate and fails Set for selected keys.
type failingSet struct {
	substrate.Substrate
	failKeys map[string]bool
}

func (f *failingSet) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.failKeys[key] {
		return fmt.Errorf("%w: injected", substrate.ErrUnavailable)
	}
	return f.Substrate.Set(ctx, key, value, ttl)
}

func TestRoundTripSizes(t *testing.T) {
	store, _ := newChunkStoreTest(t)
	ctx := context.Background()
	cfg := DefaultConfig()

	sizes := []int{
		0,
		cfg.ChunkThreshold - 1,
		cfg.ChunkThreshold,
		cfg.ChunkThreshold + 1,
		5*cfg.ChunkSize + 37,
	}

	for _, size := range sizes {
		key := fmt.Sprintf("blob_%d", size)
		value := strings.Repeat("x", size)

		if err := store.SetLarge(ctx, key, value, time.Hour); err != nil {
			t.Fatalf("set %d chars: %v", size, err)
		}
		got, found, err := store.GetLarge(ctx, key)
		if err != nil {
			t.Fatalf("get %d chars: %v", size, err)
		}
		if !found {
			t.Fatalf("value of %d chars reads as absent", size)
		}
		if got != value {
			t.Fatalf("round trip of %d chars: got %d chars back", size, len(got))
		}
	}
}

func TestMultiChunkLayout(t *testing.T) {
	store, mem := newChunkStoreTest(t)
	ctx := context.Background()
	cfg := DefaultConfig()

	value := strings.Repeat("a", 2*cfg.ChunkSize+5)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	marker, found, _ := mem.Get(ctx, "avatar")
	if !found || marker != Marker {
		t.Fatalf("base entry: %q found=%v", marker, found)
	}
	count, found, _ := mem.Get(ctx, "avatar_chunks")
	if !found || count != "3" {
		t.Fatalf("count entry: %q found=%v", count, found)
	}
	for i := 0; i < 3; i++ {
		if _, found, _ := mem.Get(ctx, fmt.Sprintf("avatar_chunk_%d", i)); !found {
			t.Fatalf("chunk %d missing", i)
		}
	}
}

func TestMissingChunkFailsClosed(t *testing.T) {
	store, mem := newChunkStoreTest(t)
	ctx := context.Background()
	cfg := DefaultConfig()

	value := strings.Repeat("b", 3*cfg.ChunkSize)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mem.Delete(ctx, "avatar_chunk_1"); err != nil {
		t.Fatalf("delete chunk: %v", err)
	}

	got, found, err := store.GetLarge(ctx, "avatar")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found || got != "" {
		t.Fatalf("partial value surfaced: found=%v len=%d", found, len(got))
	}
}

func TestCorruptCountFailsClosed(t *testing.T) {
	store, mem := newChunkStoreTest(t)
	ctx := context.Background()

	value := strings.Repeat("c", DefaultConfig().ChunkThreshold+1)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mem.Set(ctx, "avatar_chunks", "not-a-number", time.Hour); err != nil {
		t.Fatalf("corrupt count: %v", err)
	}

	if _, found, err := store.GetLarge(ctx, "avatar"); err != nil || found {
		t.Fatalf("corrupt count entry: found=%v err=%v", found, err)
	}
}

func TestDeleteLargeRemovesEveryEntry(t *testing.T) {
	store, mem := newChunkStoreTest(t)
	ctx := context.Background()
	cfg := DefaultConfig()

	// More chunks than the legacy fixed-bound scan of 10 covered.
	value := strings.Repeat("d", 12*cfg.ChunkSize)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.DeleteLarge(ctx, "avatar"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if mem.Len() != 0 {
		keys, _ := mem.Scan(ctx, "")
		t.Fatalf("orphaned entries after delete: %v", keys)
	}
}

func TestDeleteLargeBoundedScanWithoutCount(t *testing.T) {
	store, mem := newChunkStoreTest(t)
	ctx := context.Background()
	cfg := DefaultConfig()

	value := strings.Repeat("e", 3*cfg.ChunkSize)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mem.Delete(ctx, "avatar_chunks"); err != nil {
		t.Fatalf("drop count entry: %v", err)
	}

	if err := store.DeleteLarge(ctx, "avatar"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mem.Len() != 0 {
		keys, _ := mem.Scan(ctx, "")
		t.Fatalf("orphaned entries after fallback delete: %v", keys)
	}
}

func TestPartialWriteFailureFallsBackToSentinel(t *testing.T) {
	mem := substrate.NewMemory(0)
	flaky := &failingSet{
		Substrate: mem,
		failKeys:  map[string]bool{"avatar_chunk_1": true},
	}
	cfg := DefaultConfig()
	cfg.Fallback = "default"
	store := NewStore(flaky, cfg)
	ctx := context.Background()

	value := strings.Repeat("f", 3*cfg.ChunkSize)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err == nil {
		t.Fatal("expected write error")
	}

	// The half-written chunk set must not be observable; the sentinel is.
	got, found, err := store.GetLarge(ctx, "avatar")
	if err != nil {
		t.Fatalf("get after failed write: %v", err)
	}
	if !found || got != "default" {
		t.Fatalf("after failed write: %q found=%v", got, found)
	}
	if _, found, _ := mem.Get(ctx, "avatar_chunk_0"); found {
		t.Fatal("stale chunk survived rollback")
	}
	if _, found, _ := mem.Get(ctx, "avatar_chunks"); found {
		t.Fatal("stale count entry survived rollback")
	}
}

func TestDirectWriteFailureWithoutFallbackLeavesAbsent(t *testing.T) {
	mem := substrate.NewMemory(0)
	mem.FailWrites = true
	store := NewStore(mem, DefaultConfig())
	ctx := context.Background()

	if err := store.SetLarge(ctx, "k", "v", time.Hour); err == nil {
		t.Fatal("expected write error")
	}
	mem.FailWrites = false
	if _, found, _ := store.GetLarge(ctx, "k"); found {
		t.Fatal("failed write left a readable value")
	}
}

func TestRoundTripOverRedisSubstrate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := DefaultConfig()
	store := NewStore(substrate.NewRedis(rdb, 0), cfg)
	ctx := context.Background()

	value := strings.Repeat("g", 5*cfg.ChunkSize+37)
	if err := store.SetLarge(ctx, "avatar", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, found, err := store.GetLarge(ctx, "avatar")
	if err != nil || !found || got != value {
		t.Fatalf("redis round trip: found=%v err=%v len=%d", found, err, len(got))
	}
}
