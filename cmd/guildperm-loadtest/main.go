package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	guildperm "github.com/drossler/guildperm"
	"github.com/drossler/guildperm/permission"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		guilds      = flag.Int("guilds", 200, "number of guilds to seed")
		members     = flag.Int("members", 500, "members per guild")
		channels    = flag.Int("channels", 20, "channels per guild")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (resolve + interact)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gp", "cache key prefix")
		cached      = flag.Bool("cache", true, "enable the resolve cache")
	)
	flag.Parse()

	if *guilds <= 0 || *members <= 0 || *channels <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "guilds, members, channels, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := guildperm.DefaultConfig()
	cfg.Cache.Enabled = *cached
	cfg.Cache.RedisPrefix = *prefix
	cfg.Cache.TTL = time.Minute

	engine, err := guildperm.New().
		WithConfig(cfg).
		WithRedis(client).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("seeding %d guilds (%d members, %d channels each)...\n", *guilds, *members, *channels)
	startSeed := time.Now()
	fixtures := seedFixtures(*guilds, *members, *channels)
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	resolveStats := runResolvePhase(ctx, engine, fixtures, *ops, *concurrency)
	interactStats := runInteractPhase(ctx, engine, fixtures, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("resolve", resolveStats)
	printStats("interact", interactStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("cache: hits=%d misses=%d errors=%d\n",
		snap.Counters[guildperm.MetricCacheHit],
		snap.Counters[guildperm.MetricCacheMiss],
		snap.Counters[guildperm.MetricCacheError],
	)
}

type guildFixture struct {
	guild    guildperm.Guild
	members  []guildperm.Member
	channels []guildperm.Channel
}

func seedFixtures(guilds, members, channels int) []guildFixture {
	everyone := mustSet(permission.ReadMessages, permission.SendMessages, permission.AddReactions)
	modSet := mustSet(permission.ManageMessages, permission.KickMembers, permission.BanMembers)
	voiceSet := mustSet(permission.VoiceConnect, permission.VoiceSpeak)

	out := make([]guildFixture, guilds)
	for g := 0; g < guilds; g++ {
		guildID := fmt.Sprintf("g-%d", g)
		fixture := guildFixture{
			guild: guildperm.Guild{
				ID:      guildID,
				OwnerID: fmt.Sprintf("%s-u-0", guildID),
				DefaultRole: guildperm.Role{
					ID: guildID + "-everyone", GuildID: guildID, Default: true, Permissions: everyone,
				},
			},
		}

		mod := guildperm.Role{ID: guildID + "-mod", GuildID: guildID, Position: 5, Permissions: modSet}
		voice := guildperm.Role{ID: guildID + "-voice", GuildID: guildID, Position: 2, Permissions: voiceSet}

		fixture.members = make([]guildperm.Member, members)
		for m := 0; m < members; m++ {
			member := guildperm.Member{
				UserID:  fmt.Sprintf("%s-u-%d", guildID, m),
				GuildID: guildID,
			}
			// every tenth member moderates, every third joins voice
			if m%10 == 0 {
				member.Roles = append(member.Roles, mod)
			}
			if m%3 == 0 {
				member.Roles = append(member.Roles, voice)
			}
			fixture.members[m] = member
		}

		fixture.channels = make([]guildperm.Channel, channels)
		for c := 0; c < channels; c++ {
			channel := guildperm.Channel{
				ID:      fmt.Sprintf("%s-c-%d", guildID, c),
				GuildID: guildID,
			}
			if c%4 == 0 {
				// read-only channel: everyone loses send, moderators keep it
				channel.RoleOverrides = map[string]guildperm.OverrideRecord{
					fixture.guild.DefaultRole.ID: {
						Target: guildperm.OverrideTarget{Kind: guildperm.TargetRole, ID: fixture.guild.DefaultRole.ID},
						Deny:   mustSet(permission.SendMessages),
					},
					mod.ID: {
						Target: guildperm.OverrideTarget{Kind: guildperm.TargetRole, ID: mod.ID},
						Allow:  mustSet(permission.SendMessages),
					},
				}
			}
			fixture.channels[c] = channel
		}

		out[g] = fixture
	}
	return out
}

func runResolvePhase(ctx context.Context, engine *guildperm.Engine, fixtures []guildFixture, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				fixture := &fixtures[r.Intn(len(fixtures))]
				member := fixture.members[r.Intn(len(fixture.members))]
				channel := fixture.channels[r.Intn(len(fixture.channels))]

				t0 := time.Now()
				_, err := engine.ResolveChannel(ctx, fixture.guild, member, channel)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runInteractPhase(ctx context.Context, engine *guildperm.Engine, fixtures []guildFixture, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				fixture := &fixtures[r.Intn(len(fixtures))]
				actor := fixture.members[r.Intn(len(fixture.members))]
				target := fixture.members[r.Intn(len(fixture.members))]

				t0 := time.Now()
				_, err := engine.CanInteract(ctx, fixture.guild, actor, target)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func mustSet(perms ...permission.Permission) permission.Set {
	s, err := permission.FromPermissions(perms...)
	if err != nil {
		panic(err)
	}
	return s
}
