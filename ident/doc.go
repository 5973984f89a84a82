// Package ident generates and validates the compact structured identifiers
// issued alongside account records: a 2-digit partition, 2 check digits, and
// a 4-digit random body, rendered as "PPCC-RRRR". Partition "00" is reserved
// for administrator identifiers; 01-99 are regular users.
//
// # Checksum semantics
//
// The check digits are a corruption detector, NOT a cryptographic MAC. The
// algorithm (Luhn + positional weights + digit XOR, mod 100) is public and
// trivially brute-forceable over its 100 possible values. It exists so a
// client can reject a truncated or mangled identifier before branching on
// its embedded role, without a network round-trip. The authoritative
// admin decision always lives server-side.
//
// # What this package must NOT do
//
//   - Treat an invalid identifier as an administrator under any input.
//   - Perform I/O or touch any store (pure functions, crypto/rand only).
//   - Be upgraded into an access-control boundary without a design change.
package ident
