// Package permission defines the fixed permission bit table shared with the
// external protocol and the 64-bit [Set] type used by guildperm resolution.
//
// # Bit table
//
// Bit offsets are part of the wire contract and are additive-only: a new
// permission may claim an unused offset, but an existing offset is never
// reassigned. Unused offsets (8, 9, 19, 31..63) stay reserved.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides
// the codec (EncodeSet/DecodeSet) used by the resolve cache and the
// attestation claim encoding.
//
// # What this package must NOT do
//
//   - Access Redis or the network.
//   - Import guildperm or jwt (no import cycles).
//   - Reassign or remove a published bit offset.
package permission
