package internaldefs

import (
	guildperm "github.com/drossler/guildperm"
)

// CounterDef binds a guildperm counter to its exported name and help text.
type CounterDef struct {
	ID   guildperm.MetricID
	Name string
	Help string
}

// HistogramDef binds a guildperm histogram to its exported name and help text.
type HistogramDef struct {
	ID   guildperm.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: guildperm.MetricResolveGuild, Name: "guildperm_resolve_guild_total", Help: "Guild-level permission resolutions."},
	{ID: guildperm.MetricResolveChannel, Name: "guildperm_resolve_channel_total", Help: "Channel-level permission resolutions."},
	{ID: guildperm.MetricAdminShortCircuit, Name: "guildperm_admin_short_circuit_total", Help: "Resolutions widened to the full set by the administrator bit."},
	{ID: guildperm.MetricResolveRejected, Name: "guildperm_resolve_rejected_total", Help: "Resolutions rejected for cross-guild or foreign-member input."},
	{ID: guildperm.MetricCacheHit, Name: "guildperm_cache_hit_total", Help: "Resolve cache hits."},
	{ID: guildperm.MetricCacheMiss, Name: "guildperm_cache_miss_total", Help: "Resolve cache misses."},
	{ID: guildperm.MetricCacheError, Name: "guildperm_cache_error_total", Help: "Resolve cache backend failures."},
	{ID: guildperm.MetricGuildInvalidated, Name: "guildperm_guild_invalidated_total", Help: "Guild cache epoch bumps."},
	{ID: guildperm.MetricOverrideCommitted, Name: "guildperm_override_committed_total", Help: "Finalized override records."},
	{ID: guildperm.MetricOverrideRejected, Name: "guildperm_override_rejected_total", Help: "Override builder validation failures."},
	{ID: guildperm.MetricInteractAllowed, Name: "guildperm_interact_allowed_total", Help: "Positive can-interact decisions."},
	{ID: guildperm.MetricInteractDenied, Name: "guildperm_interact_denied_total", Help: "Negative can-interact decisions."},
	{ID: guildperm.MetricAttestIssued, Name: "guildperm_attest_issued_total", Help: "Signed permission attestations."},
	{ID: guildperm.MetricAttestVerifyFailed, Name: "guildperm_attest_verify_failed_total", Help: "Attestation verification failures."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: guildperm.MetricResolveLatency, Name: "guildperm_resolve_latency_seconds", Help: "Channel resolution latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, matching the
// engine's microsecond buckets.
var HistogramBounds = []string{
	"0.000001",
	"0.000005",
	"0.00001",
	"0.000025",
	"0.00005",
	"0.0001",
	"0.0005",
	"+Inf",
}

// HistogramBoundSuffix names each bucket for backends without labeled
// metrics.
var HistogramBoundSuffix = []string{
	"1us",
	"5us",
	"10us",
	"25us",
	"50us",
	"100us",
	"500us",
	"inf",
}

// NormalizeBuckets widens a snapshot slice to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
