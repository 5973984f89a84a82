package goKeep

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/MrEthical07/goKeep/ident"
)

// SetAccount persists a login or registration result for username: the
// avatar (when present) through the chunk store, the remaining profile
// fields as one JSON blob, and the token under its own key. The username
// becomes the active account and moves to the front of the roster.
//
// Avatar write failures are recovered locally by the chunk store's
// fallback sentinel; token and profile write failures propagate, so
// credentials are never silently dropped. When the data carries both a
// structured identifier and an admin flag they must agree (see
// [ErrRoleMismatch]); inconsistent records are rejected before anything
// is written.
func (k *Keeper) SetAccount(ctx context.Context, username, token string, data AccountData) error {
	if username == "" {
		return ErrUsernameEmpty
	}
	if token == "" {
		return ErrTokenEmpty
	}
	if err := checkRoleConsistency(data); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	ttl := k.entryTTL()
	data = cloneAccountData(data)

	avatar, hasAvatar := data[FieldAvatar].(string)
	delete(data, FieldAvatar)
	if hasAvatar && avatar != "" {
		if err := k.avatars.SetLarge(ctx, avatarKey(username), avatar, ttl); err != nil {
			// Recovered: the chunk store parked the fallback sentinel, so
			// the account stays usable without its avatar.
			log.Printf("goKeep: avatar write for %q fell back to sentinel: %v", username, err)
			k.metrics.Inc(MetricAvatarFallback)
		}
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileWriteFailed, err)
	}
	if err := k.sub.Set(ctx, dataKey(username), string(blob), ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrProfileWriteFailed, err)
	}
	if err := k.sub.Set(ctx, tokenKey(username), token, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenWriteFailed, err)
	}

	if err := k.setActiveLocked(ctx, username); err != nil {
		return err
	}

	k.metrics.Inc(MetricAccountStored)
	k.emitAudit(ctx, auditEventAccountStore, username, true, nil)
	return nil
}

// GetAccount returns the stored profile for username with the avatar
// merged back in. The profile blob is authoritative for existence:
// [ErrAccountNotFound] is returned when it is absent, regardless of any
// leftover avatar entries.
func (k *Keeper) GetAccount(ctx context.Context, username string) (AccountData, error) {
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	return k.getAccountLocked(ctx, username)
}

// GetToken returns the remembered token for username, or
// [ErrAccountNotFound].
func (k *Keeper) GetToken(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", ErrUsernameEmpty
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	token, found, err := k.sub.Get(ctx, tokenKey(username))
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrAccountNotFound, username)
	}
	return token, nil
}

// DeleteAccount destroys every stored entry for username: token, profile
// blob, and avatar including its chunk companions. The roster loses the
// deleted name (other entries keep their order) and the active pointer is
// cleared if it pointed here; callers wanting a new active account must
// pick one explicitly. Deleting an unknown username is a no-op.
func (k *Keeper) DeleteAccount(ctx context.Context, username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	return k.deleteAccountLocked(ctx, username)
}

// ListAllUsernames enumerates every remembered account by scanning the
// substrate for token entries. This is the source of truth for "known
// accounts", independent of the roster: more names than the roster cap may
// exist (for example mid-migration) and all of them are returned.
func (k *Keeper) ListAllUsernames(ctx context.Context) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.listUsernamesLocked(ctx)
}

func (k *Keeper) getAccountLocked(ctx context.Context, username string) (AccountData, error) {
	blob, found, err := k.sub.Get(ctx, dataKey(username))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, username)
	}

	var data AccountData
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrProfileCorrupt, username, err)
	}
	if data == nil {
		data = AccountData{}
	}

	avatar, found, err := k.avatars.GetLarge(ctx, avatarKey(username))
	if err != nil {
		return nil, err
	}
	if found && avatar != avatarFallback {
		data[FieldAvatar] = avatar
	}

	return data, nil
}

func (k *Keeper) deleteAccountLocked(ctx context.Context, username string) error {
	if err := k.sub.Delete(ctx, tokenKey(username)); err != nil {
		return err
	}
	if err := k.sub.Delete(ctx, dataKey(username)); err != nil {
		return err
	}
	if err := k.avatars.DeleteLarge(ctx, avatarKey(username)); err != nil {
		return err
	}

	active, found, err := k.activeLocked(ctx)
	if err != nil {
		return err
	}
	if found && active == username {
		if err := k.sub.Delete(ctx, activeUserKey); err != nil {
			return err
		}
	}
	if err := k.removeFromRosterLocked(ctx, username); err != nil {
		return err
	}

	k.metrics.Inc(MetricAccountDeleted)
	k.emitAudit(ctx, auditEventAccountDelete, username, true, nil)
	return nil
}

func (k *Keeper) listUsernamesLocked(ctx context.Context) ([]string, error) {
	keys, err := k.sub.Scan(ctx, tokenKeyPrefix)
	if err != nil {
		return nil, err
	}

	usernames := make([]string, 0, len(keys))
	for _, key := range keys {
		usernames = append(usernames, key[len(tokenKeyPrefix):])
	}
	sort.Strings(usernames)
	return usernames, nil
}

// checkRoleConsistency rejects account data whose externally-carried admin
// flag disagrees with the role embedded in its identifier. Surfaced to the
// caller as a data-integrity error; the keeper never silently picks a side.
func checkRoleConsistency(data AccountData) error {
	id, hasID := data[FieldUserID].(string)
	claimed, hasFlag := data[FieldIsAdmin].(bool)
	if !hasID || !hasFlag {
		return nil
	}

	embedded, err := ident.IsAdmin(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIdentifierInvalid, err)
	}
	if embedded != claimed {
		return fmt.Errorf("%w: identifier %q embeds admin=%v, record claims %v", ErrRoleMismatch, id, embedded, claimed)
	}
	return nil
}
