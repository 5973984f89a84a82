// Package goKeep remembers a small, bounded set of locally-authenticated
// accounts — token, profile blob, optional avatar — across sessions, on top
// of a size- and count-limited key-value substrate. It tracks one active
// account among the remembered ones, keeps a capped most-recently-used
// roster, and batch re-validates remembered sessions against a
// caller-supplied remote authority, evicting the ones that fail.
//
// The package is designed for concurrent callers: Keeper methods are safe
// to call from multiple goroutines after initialization through
// [Builder.Build]; every operation runs under one internal critical
// section so a validation pass can never interleave with account reads.
//
// # Architecture boundaries
//
// goKeep is the public surface. It exposes [Keeper], [Builder], [Config],
// and value types (AccountData, ValidationResult, MetricsSnapshot, etc.).
// Oversized-value chunking lives in the chunk package, the storage
// collaborator contract in substrate, and identifier validation in ident.
//
// # What this package must NOT do
//
//   - Perform login, registration, or logout calls; the network client is
//     a collaborator and only its validation callback crosses this API.
//   - Encrypt anything. The substrate's native confidentiality is all
//     there is; tokens are stored as the remote authority issued them.
//   - Treat the identifier checksum as an authorization decision (see the
//     ident package documentation).
//
// # Stored key layout
//
// The layout is fixed for interoperability with previously-written data:
// userToken_{username}, userData_{username}, userAvatar_{username} (plus
// _chunks and _chunk_{i} companions), activeUser, and lastUsers.
package goKeep
