// Package chunk stores values that exceed the substrate's per-entry size
// cap by splitting them across multiple entries and reassembling them on
// read. For one logical key the layout is:
//
//	key           -> "chunked"            (marker)
//	key_chunks    -> "<N>"                (authoritative chunk count)
//	key_chunk_0 … key_chunk_{N-1}         (pieces, concatenated in order)
//
// Values at or below the chunking threshold are stored directly under key.
//
// # Failure semantics
//
// Reads fail closed: a missing or unreadable chunk makes the whole value
// absent, never a partial reconstruction. Writes that fail part-way are
// rolled back and replaced with the configured fallback sentinel so a
// half-written chunk set is never observable as present. Deletion is
// bounded by the stored chunk count; when the count entry itself is gone
// the cleanup falls back to a bounded index scan.
//
// # What this package must NOT do
//
//   - Interpret reassembled values (opaque strings only).
//   - Leave a partially-written chunk set readable as the value.
//   - Import goKeep.
package chunk
