package substrate

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisSubstrateTest(t *testing.T, maxEntrySize int) (*Redis, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sub := NewRedis(rdb, maxEntrySize)
	return sub, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestRedisSetGetDelete(t *testing.T) {
	sub, _, done := newRedisSubstrateTest(t, 0)
	defer done()
	ctx := context.Background()

	if _, found, err := sub.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("get missing: found=%v err=%v", found, err)
	}

	if err := sub.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, found, err := sub.Get(ctx, "k")
	if err != nil || !found || value != "v" {
		t.Fatalf("get: %q found=%v err=%v", value, found, err)
	}

	if err := sub.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := sub.Get(ctx, "k"); found {
		t.Fatal("entry survived delete")
	}
	if err := sub.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestRedisExpiredEntryReadsAsAbsent(t *testing.T) {
	sub, mr, done := newRedisSubstrateTest(t, 0)
	defer done()
	ctx := context.Background()

	if err := sub.Set(ctx, "ephemeral", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, found, err := sub.Get(ctx, "ephemeral"); err != nil || found {
		t.Fatalf("expired entry: found=%v err=%v", found, err)
	}
}

func TestRedisScanReturnsPrefixedKeys(t *testing.T) {
	sub, _, done := newRedisSubstrateTest(t, 0)
	defer done()
	ctx := context.Background()

	for _, key := range []string{"userToken_alice", "userToken_bob", "userData_alice", "activeUser"} {
		if err := sub.Set(ctx, key, "v", 0); err != nil {
			t.Fatalf("set %q: %v", key, err)
		}
	}

	keys, err := sub.Scan(ctx, "userToken_")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "userToken_alice" || keys[1] != "userToken_bob" {
		t.Fatalf("scan result: %v", keys)
	}
}

func TestRedisEntrySizeCap(t *testing.T) {
	sub, _, done := newRedisSubstrateTest(t, 16)
	defer done()
	ctx := context.Background()

	if err := sub.Set(ctx, "small", strings.Repeat("x", 16), 0); err != nil {
		t.Fatalf("set at cap: %v", err)
	}
	err := sub.Set(ctx, "big", strings.Repeat("x", 17), 0)
	if !errors.Is(err, ErrEntryTooLarge) {
		t.Fatalf("set over cap: %v", err)
	}
	if sub.MaxEntrySize() != 16 {
		t.Fatalf("max entry size: %d", sub.MaxEntrySize())
	}
}

func TestRedisUnavailableWrapped(t *testing.T) {
	sub, mr, done := newRedisSubstrateTest(t, 0)
	defer done()
	ctx := context.Background()
	mr.Close()

	if _, _, err := sub.Get(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("get against closed redis: %v", err)
	}
	if err := sub.Set(ctx, "k", "v", 0); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("set against closed redis: %v", err)
	}
}
