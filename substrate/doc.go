// Package substrate defines the size-limited key-value store the keeper
// persists into, plus the two shipped implementations: a Redis-backed store
// for production and a mutex-guarded in-memory store for tests and
// embedding.
//
// # Entry semantics
//
// Entries carry a per-entry TTL enforced by the substrate itself; the
// keeper treats an expired entry identically to one that was never
// written. Implementations with a per-entry size cap reject oversized
// writes with [ErrEntryTooLarge]; callers that need bigger values chunk
// them (see the chunk package).
//
// # What this package must NOT do
//
//   - Interpret values. Everything stored here is an opaque string.
//   - Reconstruct chunked values; that policy lives in the chunk package.
//   - Import goKeep or any sibling package.
package substrate
