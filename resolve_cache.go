package guildperm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drossler/guildperm/permission"
	"github.com/redis/go-redis/v9"
)

const cacheRecordVersionV1 = 1

// resolveCache stores computed channel-effective bitsets in Redis. Entries
// are keyed under a per-guild epoch counter: bumping the epoch makes every
// existing key unreachable in one INCR instead of scanning for deletions,
// and TTL reclaims the orphans.
//
// The cache never stores entity data; staleness is bounded by the TTL plus
// the caller's discipline in bumping the epoch on role/override changes.
type resolveCache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func newResolveCache(client *redis.Client, prefix string, ttl time.Duration) *resolveCache {
	return &resolveCache{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *resolveCache) epochKey(guildID string) string {
	return c.prefix + ":ver:" + guildID
}

func (c *resolveCache) channelKey(epoch, guildID, channelID, userID string) string {
	return c.prefix + ":" + epoch + ":" + guildID + ":" + channelID + ":" + userID
}

func (c *resolveCache) epoch(ctx context.Context, guildID string) (string, error) {
	epoch, err := c.redis.Get(ctx, c.epochKey(guildID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return epoch, nil
}

// Ping round-trips the backend and returns the observed latency.
func (c *resolveCache) Ping(ctx context.Context) (time.Duration, error) {
	started := time.Now()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return time.Since(started), nil
}

// BumpEpoch orphans every cached entry for the guild.
func (c *resolveCache) BumpEpoch(ctx context.Context, guildID string) error {
	if err := c.redis.Incr(ctx, c.epochKey(guildID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// GetChannel looks up a cached channel-effective bitset. The second return
// is false on a miss.
func (c *resolveCache) GetChannel(ctx context.Context, guildID, userID, channelID string) (permission.Set, bool, error) {
	epoch, err := c.epoch(ctx, guildID)
	if err != nil {
		return 0, false, err
	}

	data, err := c.redis.Get(ctx, c.channelKey(epoch, guildID, channelID, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	set, err := decodeCacheRecord(data)
	if err != nil {
		// unreadable entry: treat as miss, let the rewrite repair it
		return 0, false, nil
	}
	return set, true, nil
}

// PutChannel stores a computed channel-effective bitset under the current
// guild epoch.
func (c *resolveCache) PutChannel(ctx context.Context, guildID, userID, channelID string, set permission.Set) error {
	epoch, err := c.epoch(ctx, guildID)
	if err != nil {
		return err
	}

	key := c.channelKey(epoch, guildID, channelID, userID)
	if err := c.redis.Set(ctx, key, encodeCacheRecord(set), c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func encodeCacheRecord(set permission.Set) []byte {
	out := make([]byte, 0, 1+permission.EncodedSetSize)
	out = append(out, cacheRecordVersionV1)
	return append(out, permission.EncodeSet(set)...)
}

var errCacheRecordCorrupt = errors.New("resolve cache record corrupt")

func decodeCacheRecord(data []byte) (permission.Set, error) {
	if len(data) != 1+permission.EncodedSetSize || data[0] != cacheRecordVersionV1 {
		return 0, errCacheRecordCorrupt
	}
	return permission.DecodeSet(data[1:])
}
