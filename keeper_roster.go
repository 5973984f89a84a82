package goKeep

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// SetActive marks username as the account currently signed in for UI
// purposes and moves it to the front of the roster (the active account is
// always a roster member). The account must already be remembered.
func (k *Keeper) SetActive(ctx context.Context, username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	_, found, err := k.sub.Get(ctx, tokenKey(username))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, username)
	}
	return k.setActiveLocked(ctx, username)
}

// GetActive returns the active username. found is false when no account
// is active.
func (k *Keeper) GetActive(ctx context.Context) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.activeLocked(ctx)
}

// ClearActive unsets the active account without touching any stored data.
func (k *Keeper) ClearActive(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.sub.Delete(ctx, activeUserKey)
}

// UpdateRoster moves username to the front of the most-recently-used
// roster, deduplicating and truncating to the configured cap. Display-only:
// a name dropped off the end keeps its stored account data (true removal is
// [Keeper.DeleteAccount], a deliberately separate operation).
func (k *Keeper) UpdateRoster(ctx context.Context, username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	return k.updateRosterLocked(ctx, username)
}

// Roster returns the most-recently-used usernames, newest first, at most
// the configured cap.
func (k *Keeper) Roster(ctx context.Context) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.rosterLocked(ctx)
}

func (k *Keeper) setActiveLocked(ctx context.Context, username string) error {
	if err := k.sub.Set(ctx, activeUserKey, username, k.entryTTL()); err != nil {
		return err
	}
	if err := k.updateRosterLocked(ctx, username); err != nil {
		return err
	}
	k.emitAudit(ctx, auditEventAccountActive, username, true, nil)
	return nil
}

func (k *Keeper) activeLocked(ctx context.Context) (string, bool, error) {
	return k.sub.Get(ctx, activeUserKey)
}

func (k *Keeper) rosterLocked(ctx context.Context) ([]string, error) {
	raw, found, err := k.sub.Get(ctx, rosterKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var roster []string
	if err := json.Unmarshal([]byte(raw), &roster); err != nil {
		// A mangled roster is a display hint, not account data; start over
		// rather than failing every operation that touches it.
		log.Printf("goKeep: roster entry corrupt, resetting: %v", err)
		return nil, nil
	}
	if len(roster) > k.config.Roster.Limit {
		roster = roster[:k.config.Roster.Limit]
	}
	return roster, nil
}

func (k *Keeper) updateRosterLocked(ctx context.Context, username string) error {
	roster, err := k.rosterLocked(ctx)
	if err != nil {
		return err
	}

	next := make([]string, 0, len(roster)+1)
	next = append(next, username)
	for _, name := range roster {
		if name != username {
			next = append(next, name)
		}
	}
	if len(next) > k.config.Roster.Limit {
		next = next[:k.config.Roster.Limit]
		k.metrics.Inc(MetricRosterEviction)
	}

	return k.writeRosterLocked(ctx, next)
}

func (k *Keeper) removeFromRosterLocked(ctx context.Context, username string) error {
	roster, err := k.rosterLocked(ctx)
	if err != nil {
		return err
	}

	next := roster[:0:0]
	for _, name := range roster {
		if name != username {
			next = append(next, name)
		}
	}
	if len(next) == len(roster) {
		return nil
	}
	return k.writeRosterLocked(ctx, next)
}

func (k *Keeper) writeRosterLocked(ctx context.Context, roster []string) error {
	if roster == nil {
		roster = []string{}
	}
	encoded, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRosterWriteFailed, err)
	}
	if err := k.sub.Set(ctx, rosterKey, string(encoded), k.entryTTL()); err != nil {
		return fmt.Errorf("%w: %v", ErrRosterWriteFailed, err)
	}
	return nil
}
