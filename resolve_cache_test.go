package guildperm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/drossler/guildperm/permission"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newCachedEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := defaultConfig()
	cfg.Cache.Enabled = true

	engine, err := New().WithConfig(cfg).WithRedis(newTestRedis(t)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine
}

func TestResolveCacheRoundTrip(t *testing.T) {
	cache := newResolveCache(newTestRedis(t), "gp", time.Minute)
	ctx := context.Background()

	if _, hit, err := cache.GetChannel(ctx, "g1", "u1", "c1"); err != nil || hit {
		t.Fatalf("expected cold miss, hit=%v err=%v", hit, err)
	}

	want := mustSet(t, permission.ReadMessages, permission.SendMessages)
	if err := cache.PutChannel(ctx, "g1", "u1", "c1", want); err != nil {
		t.Fatalf("PutChannel failed: %v", err)
	}

	got, hit, err := cache.GetChannel(ctx, "g1", "u1", "c1")
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if got != want {
		t.Fatalf("GetChannel = %x, want %x", got.Raw(), want.Raw())
	}
}

func TestResolveCacheEpochBumpInvalidates(t *testing.T) {
	cache := newResolveCache(newTestRedis(t), "gp", time.Minute)
	ctx := context.Background()

	if err := cache.PutChannel(ctx, "g1", "u1", "c1", mustSet(t, permission.ReadMessages)); err != nil {
		t.Fatalf("PutChannel failed: %v", err)
	}
	if err := cache.PutChannel(ctx, "g2", "u1", "c9", mustSet(t, permission.ReadMessages)); err != nil {
		t.Fatalf("PutChannel failed: %v", err)
	}

	if err := cache.BumpEpoch(ctx, "g1"); err != nil {
		t.Fatalf("BumpEpoch failed: %v", err)
	}

	if _, hit, err := cache.GetChannel(ctx, "g1", "u1", "c1"); err != nil || hit {
		t.Fatalf("bumped guild should miss, hit=%v err=%v", hit, err)
	}
	// other guilds are untouched
	if _, hit, err := cache.GetChannel(ctx, "g2", "u1", "c9"); err != nil || !hit {
		t.Fatalf("other guild should still hit, hit=%v err=%v", hit, err)
	}
}

func TestResolveCacheCorruptRecordIsMiss(t *testing.T) {
	client := newTestRedis(t)
	cache := newResolveCache(client, "gp", time.Minute)
	ctx := context.Background()

	if err := client.Set(ctx, cache.channelKey("0", "g1", "c1", "u1"), "garbage", time.Minute).Err(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, hit, err := cache.GetChannel(ctx, "g1", "u1", "c1"); err != nil || hit {
		t.Fatalf("corrupt record should read as miss, hit=%v err=%v", hit, err)
	}
}

func TestResolveChannelUsesCache(t *testing.T) {
	engine := newCachedEngine(t)
	guild := testGuild(t, permission.ReadMessages)
	member := testMember("u1")
	channel := emptyChannel("c1")
	ctx := context.Background()

	first, err := engine.ResolveChannel(ctx, guild, member, channel)
	if err != nil {
		t.Fatalf("ResolveChannel failed: %v", err)
	}

	// second call must be served from the cache
	second, err := engine.ResolveChannel(ctx, guild, member, channel)
	if err != nil {
		t.Fatalf("ResolveChannel failed: %v", err)
	}
	if first != second {
		t.Fatalf("cached mask differs: %x vs %x", first.Raw(), second.Raw())
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricCacheMiss] != 1 {
		t.Fatalf("MetricCacheMiss = %d", snap.Counters[MetricCacheMiss])
	}
	if snap.Counters[MetricCacheHit] != 1 {
		t.Fatalf("MetricCacheHit = %d", snap.Counters[MetricCacheHit])
	}
}

func TestResolveChannelCacheServesStaleUntilInvalidated(t *testing.T) {
	engine := newCachedEngine(t)
	guild := testGuild(t, permission.ReadMessages)
	member := testMember("u1")
	channel := emptyChannel("c1")
	ctx := context.Background()

	if _, err := engine.ResolveChannel(ctx, guild, member, channel); err != nil {
		t.Fatalf("ResolveChannel failed: %v", err)
	}

	// snapshot changed but the epoch has not moved: the old mask is served
	channel.MemberOverrides["u1"] = memberOverride("c1", "u1", mustSet(t, permission.SendMessages), 0)
	perms, err := engine.ResolveChannel(ctx, guild, member, channel)
	if err != nil {
		t.Fatalf("ResolveChannel failed: %v", err)
	}
	if perms.Contains(permission.SendMessages) {
		t.Fatal("cache returned a fresh mask without invalidation")
	}

	if err := engine.InvalidateGuild(ctx, "g1"); err != nil {
		t.Fatalf("InvalidateGuild failed: %v", err)
	}

	perms, err = engine.ResolveChannel(ctx, guild, member, channel)
	if err != nil {
		t.Fatalf("ResolveChannel failed: %v", err)
	}
	if !perms.Contains(permission.SendMessages) {
		t.Fatal("invalidation did not surface the new override")
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricGuildInvalidated] != 1 {
		t.Fatalf("MetricGuildInvalidated = %d", snap.Counters[MetricGuildInvalidated])
	}
}

func TestInvalidateGuildWithoutCache(t *testing.T) {
	engine := newTestEngine(t)
	if err := engine.InvalidateGuild(context.Background(), "g1"); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
}
