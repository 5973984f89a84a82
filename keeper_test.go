package goKeep

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goKeep/substrate"
)

func newKeeperTest(t *testing.T) (*Keeper, *substrate.Memory) {
	t.Helper()
	mem := substrate.NewMemory(0)
	keeper, err := New().WithSubstrate(mem).Build()
	if err != nil {
		t.Fatalf("build keeper: %v", err)
	}
	t.Cleanup(keeper.Close)
	return keeper, mem
}

func newRedisKeeperTest(t *testing.T) (*Keeper, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	keeper, err := New().WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("build keeper: %v", err)
	}
	t.Cleanup(func() {
		keeper.Close()
		rdb.Close()
		mr.Close()
	})
	return keeper, mr
}
