package guildperm

import (
	"errors"
	"time"
)

// Config defines the engine-wide configuration. Zero value plus
// defaultConfig() gives a pure in-memory engine: no cache, no attestation,
// audit and metrics off.
type Config struct {
	Cache       CacheConfig
	Attestation AttestationConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig controls the optional Redis-backed resolve cache. The cache
// stores computed bitsets keyed by guild epoch, never entity data; bumping
// the epoch (Engine.InvalidateGuild) orphans every cached mask for a guild
// in one round-trip.
type CacheConfig struct {
	Enabled     bool
	RedisPrefix string
	TTL         time.Duration
}

/*
====================================
ATTESTATION CONFIG
====================================
*/

// AttestationConfig controls signed permission attestations.
type AttestationConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "ed25519" (default), "hs256" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters and the resolve latency
// histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the engine defaults: metrics on, cache, attestation,
// and audit off. Callers enable subsystems by flipping fields before
// [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Enabled:     false,
			RedisPrefix: "gp",
			TTL:         30 * time.Second,
		},
		Attestation: AttestationConfig{
			Enabled:       false,
			TTL:           5 * time.Minute,
			SigningMethod: "ed25519",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Attestation.PrivateKey = append([]byte(nil), cfg.Attestation.PrivateKey...)
	out.Attestation.PublicKey = append([]byte(nil), cfg.Attestation.PublicKey...)
	return out
}

// Validate checks cross-field consistency. Called by [Builder.Build]; exposed
// for callers that assemble Config from external sources.
func (c Config) Validate() error {
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return errors.New("cache TTL must be positive")
		}
		if c.Cache.RedisPrefix == "" {
			return errors.New("cache prefix must not be empty")
		}
	}

	if c.Attestation.Enabled {
		if c.Attestation.TTL <= 0 {
			return errors.New("attestation TTL must be positive")
		}
		switch c.Attestation.SigningMethod {
		case "ed25519", "hs256":
		default:
			return errors.New("unsupported attestation signing method")
		}
		if len(c.Attestation.PrivateKey) == 0 {
			return errors.New("attestation requires a private key")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}

	return nil
}
