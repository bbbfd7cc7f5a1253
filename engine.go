package guildperm

import (
	"context"
	"time"

	"github.com/drossler/guildperm/jwt"
)

// Engine is the entry point for permission resolution, hierarchy checks,
// override staging, and attestation. Build one through [Builder.Build];
// after that every method is safe for concurrent use.
type Engine struct {
	config     Config
	cache      *resolveCache
	audit      *auditDispatcher
	metrics    *Metrics
	jwtManager *jwt.Manager
}

// Close stops the audit dispatcher, draining buffered events. The engine
// stays usable for pure resolution afterwards; further audit emits are
// dropped.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine counters for the exporter packages.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) auditEmit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = requestIDFromContext(ctx)
	}
	if shard := shardIDFromContext(ctx); shard != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		event.Metadata["shard_id"] = shard
	}
	e.audit.Emit(ctx, event)
}

// InvalidateGuild bumps the guild's cache epoch, orphaning every cached
// resolution for it. Callers invoke this when roles or overrides change.
// Returns [ErrCacheDisabled] when no resolve cache is configured.
func (e *Engine) InvalidateGuild(ctx context.Context, guildID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.cache == nil {
		return ErrCacheDisabled
	}

	if err := e.cache.BumpEpoch(ctx, guildID); err != nil {
		e.metricInc(MetricCacheError)
		return err
	}

	e.metricInc(MetricGuildInvalidated)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditGuildInvalidated,
		GuildID:   guildID,
		Success:   true,
	})
	return nil
}
