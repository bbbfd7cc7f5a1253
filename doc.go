// Package guildperm computes effective permission bitmasks for guild members,
// with and without a channel context, and answers hierarchy ("can-act-on")
// questions between members, roles, and restricted emotes.
//
// The engine is a pure, synchronous computation over immutable snapshots:
// callers pass the current [Guild], [Member], and [Channel] value data and
// receive a [permission.Set] or a boolean decision. Entity ownership — the
// mutable guild/channel/member/role registries updated from gateway events —
// stays with the caller; guildperm never stores entities.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// guildperm is the public surface. It exposes [Engine], [Builder], [Config],
// the snapshot value types, and [OverrideBuilder]. The bit table and bitset
// math live in the permission sub-package; attestation token signing lives in
// the jwt sub-package.
//
// # What this package must NOT do
//
//   - Perform network I/O outside of the optional Redis resolve cache and
//     only inside Engine methods that take a context.
//   - Mutate a snapshot passed in by the caller.
//   - Expose Redis clients or encoding details in its public API.
//
// # Performance contract
//
// Resolve and ResolveChannel are the hot path. With the cache disabled they
// must not allocate beyond the returned error path and must complete without
// any round-trip.
package guildperm
