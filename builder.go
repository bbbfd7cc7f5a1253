package guildperm

import (
	"github.com/drossler/guildperm/jwt"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. One-shot: Build consumes the builder.
type Builder struct {
	config Config
	redis  *redis.Client

	auditSink AuditSink

	built bool
}

// New creates a Builder with the default configuration: metrics on, cache,
// attestation, and audit off.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the resolve cache. Required
// when Config.Cache.Enabled is set, ignored otherwise.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAttestation configures the attestation signer. A zero TTL and an empty
// signing method fall back to the defaults.
func (b *Builder) WithAttestation(cfg AttestationConfig) *Builder {
	if cfg.TTL == 0 {
		cfg.TTL = b.config.Attestation.TTL
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = b.config.Attestation.SigningMethod
	}
	b.config.Attestation = cfg
	return b
}

// WithAuditSink supplies the sink receiving audit events and enables
// auditing. Enabling auditing through Config without a sink falls back to
// [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the resolve latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and produces the Engine. A second call
// fails with [ErrBuilderUsed].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled && b.redis == nil {
		return nil, ErrCacheDisabled
	}

	engine := &Engine{
		config:  cfg,
		metrics: NewMetrics(cfg.Metrics),
	}

	if cfg.Cache.Enabled {
		engine.cache = newResolveCache(b.redis, cfg.Cache.RedisPrefix, cfg.Cache.TTL)
	}

	if cfg.Attestation.Enabled {
		manager, err := jwt.NewManager(jwt.Config{
			TTL:           cfg.Attestation.TTL,
			SigningMethod: jwt.SigningMethod(cfg.Attestation.SigningMethod),
			PrivateKey:    cfg.Attestation.PrivateKey,
			PublicKey:     cfg.Attestation.PublicKey,
			Issuer:        cfg.Attestation.Issuer,
			Leeway:        cfg.Attestation.Leeway,
		})
		if err != nil {
			return nil, err
		}
		engine.jwtManager = manager
	}

	if cfg.Audit.Enabled {
		engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	}

	b.built = true
	return engine, nil
}
