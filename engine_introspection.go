package guildperm

import (
	"context"
	"time"
)

// EngineStatus is the safe introspection view of a built engine: which
// subsystems are live, nothing about keys or cached masks.
type EngineStatus struct {
	CacheEnabled       bool
	AttestationEnabled bool
	AuditEnabled       bool
	MetricsEnabled     bool
	AuditDropped       uint64
}

// HealthStatus is an on-demand backend health result.
type HealthStatus struct {
	CacheConfigured bool
	RedisAvailable  bool
	RedisLatency    time.Duration
}

// Status reports the engine's subsystem wiring.
func (e *Engine) Status() EngineStatus {
	if e == nil {
		return EngineStatus{}
	}
	return EngineStatus{
		CacheEnabled:       e.cache != nil,
		AttestationEnabled: e.jwtManager != nil,
		AuditEnabled:       e.audit != nil,
		MetricsEnabled:     e.metrics.Enabled(),
		AuditDropped:       e.AuditDropped(),
	}
}

// Health probes the resolve cache backend. With no cache configured the
// result reports that and nothing else.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if e == nil || e.cache == nil {
		return HealthStatus{}
	}

	latency, err := e.cache.Ping(ctx)
	return HealthStatus{
		CacheConfigured: true,
		RedisAvailable:  err == nil,
		RedisLatency:    latency,
	}
}
