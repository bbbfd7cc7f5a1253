package guildperm

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter or histogram.
type MetricID uint16

const (
	// MetricResolveGuild counts guild-level resolutions.
	MetricResolveGuild MetricID = iota
	// MetricResolveChannel counts channel-level resolutions.
	MetricResolveChannel
	// MetricAdminShortCircuit counts resolutions widened to All by the
	// administrator bit.
	MetricAdminShortCircuit
	// MetricResolveRejected counts resolutions rejected for invalid input
	// (cross-guild, foreign member).
	MetricResolveRejected
	// MetricCacheHit counts resolve cache hits.
	MetricCacheHit
	// MetricCacheMiss counts resolve cache misses.
	MetricCacheMiss
	// MetricCacheError counts resolve cache backend failures.
	MetricCacheError
	// MetricGuildInvalidated counts guild epoch bumps.
	MetricGuildInvalidated
	// MetricOverrideCommitted counts finalized override records.
	MetricOverrideCommitted
	// MetricOverrideRejected counts override builder validation failures.
	MetricOverrideRejected
	// MetricInteractAllowed counts positive can-interact decisions.
	MetricInteractAllowed
	// MetricInteractDenied counts negative can-interact decisions.
	MetricInteractDenied
	// MetricAttestIssued counts signed permission attestations.
	MetricAttestIssued
	// MetricAttestVerifyFailed counts attestation verification failures.
	MetricAttestVerifyFailed
	// MetricResolveLatency is the channel-resolution latency histogram.
	MetricResolveLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// paddedCounter keeps hot counters on distinct cache lines.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's atomic counters. All methods are safe for
// concurrent use and are no-ops when metrics are disabled.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram,
// consumed by the metrics/export packages.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a Metrics set from config.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are collected.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only MetricResolveLatency is histogrammed.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricResolveLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricResolveLatency].buckets[i])
		}
		s.Histograms[MetricResolveLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 1:
		return 0
	case us <= 5:
		return 1
	case us <= 10:
		return 2
	case us <= 25:
		return 3
	case us <= 50:
		return 4
	case us <= 100:
		return 5
	case us <= 500:
		return 6
	default:
		return 7
	}
}
