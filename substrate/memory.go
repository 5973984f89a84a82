package substrate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Substrate for tests and embedding. Expiry is
// honored lazily on read and scan.
type Memory struct {
	mu           sync.Mutex
	entries      map[string]memoryEntry
	maxEntrySize int

	// FailWrites makes every Set return ErrUnavailable. Tests use it to
	// exercise write-failure fallback paths.
	FailWrites bool
}

// NewMemory creates an empty in-memory substrate. maxEntrySize of 0
// disables the per-entry cap.
func NewMemory(maxEntrySize int) *Memory {
	return &Memory{
		entries:      make(map[string]memoryEntry),
		maxEntrySize: maxEntrySize,
	}
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if m.expired(entry) {
		delete(m.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("%w: write failure injected", ErrUnavailable)
	}
	if m.maxEntrySize > 0 && len(value) > m.maxEntrySize {
		return fmt.Errorf("%w: %d bytes under %q", ErrEntryTooLarge, len(value), key)
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Scan describes the scan operation and its observable behavior.
//
// Scan does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Scan(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, key)
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// MaxEntrySize describes the maxentrysize operation and its observable behavior.
//
// MaxEntrySize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) MaxEntrySize() int {
	return m.maxEntrySize
}

// Len reports the number of live entries. Intended for tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, entry := range m.entries {
		if !m.expired(entry) {
			n++
		}
	}
	return n
}

func (m *Memory) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)
}
