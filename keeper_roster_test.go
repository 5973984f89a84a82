package goKeep

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goKeep/substrate"
)

func rosterEquals(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("roster %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roster %v, want %v", got, want)
		}
	}
}

func TestRosterCapAndOrder(t *testing.T) {
	keeper, _ := newKeeperTest(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := keeper.SetAccount(ctx, name, "tok-"+name, AccountData{"name": name}); err != nil {
			t.Fatalf("set %q: %v", name, err)
		}
	}

	roster, err := keeper.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	rosterEquals(t, roster, "c", "b")

	// Roster eviction is display-only: "a" keeps its stored data.
	data, err := keeper.GetAccount(ctx, "a")
	if err != nil {
		t.Fatalf("evicted account data lost: %v", err)
	}
	if data["name"] != "a" {
		t.Fatalf("evicted account data mangled: %v", data)
	}
}

func TestUpdateRosterDeduplicates(t *testing.T) {
	keeper, _ := newKeeperTest(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "a"} {
		if err := keeper.UpdateRoster(ctx, name); err != nil {
			t.Fatalf("update roster %q: %v", name, err)
		}
	}

	roster, err := keeper.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	rosterEquals(t, roster, "a", "b")
}

func TestSetActiveRequiresKnownAccount(t *testing.T) {
	keeper, _ := newKeeperTest(t)
	ctx := context.Background()

	if err := keeper.SetActive(ctx, "ghost"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("set active unknown: %v", err)
	}

	if err := keeper.SetAccount(ctx, "alice", "tok", nil); err != nil {
		t.Fatalf("set account: %v", err)
	}
	if err := keeper.SetAccount(ctx, "bob", "tok", nil); err != nil {
		t.Fatalf("set account: %v", err)
	}

	if err := keeper.SetActive(ctx, "alice"); err != nil {
		t.Fatalf("set active: %v", err)
	}
	active, found, err := keeper.GetActive(ctx)
	if err != nil || !found || active != "alice" {
		t.Fatalf("active: %q found=%v err=%v", active, found, err)
	}

	// The active account is always a roster member.
	roster, err := keeper.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	rosterEquals(t, roster, "alice", "bob")
}

func TestClearActive(t *testing.T) {
	keeper, _ := newKeeperTest(t)
	ctx := context.Background()

	if err := keeper.SetAccount(ctx, "alice", "tok", nil); err != nil {
		t.Fatalf("set account: %v", err)
	}
	if err := keeper.ClearActive(ctx); err != nil {
		t.Fatalf("clear active: %v", err)
	}
	if _, found, _ := keeper.GetActive(ctx); found {
		t.Fatal("active pointer survived clear")
	}
}

func TestCorruptRosterResets(t *testing.T) {
	keeper, mem := newKeeperTest(t)
	ctx := context.Background()

	if err := mem.Set(ctx, rosterKey, "{not json", 0); err != nil {
		t.Fatalf("plant corrupt roster: %v", err)
	}

	roster, err := keeper.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 0 {
		t.Fatalf("corrupt roster surfaced: %v", roster)
	}

	if err := keeper.UpdateRoster(ctx, "alice"); err != nil {
		t.Fatalf("update after corruption: %v", err)
	}
	roster, err = keeper.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	rosterEquals(t, roster, "alice")
}

func TestRosterCapConfigurable(t *testing.T) {
	cfg := defaultConfig()
	cfg.Roster.Limit = 3

	keeper, err := New().WithConfig(cfg).WithSubstrate(substrate.NewMemory(0)).Build()
	if err != nil {
		t.Fatalf("build keeper: %v", err)
	}
	defer keeper.Close()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		if err := keeper.UpdateRoster(ctx, name); err != nil {
			t.Fatalf("update roster %q: %v", name, err)
		}
	}
	roster, err := keeper.Roster(ctx)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	rosterEquals(t, roster, "d", "c", "b")
}
