package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/theleywin/feed-backend/src/models"
)

const (
	statsKeyPrefix = "feed:stats:"
	fieldFollowers = "followers"
	fieldFollowing = "following"
)

// RedisStatsCache implements StatsCache with one hash per principal.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects and pings Redis.
func NewRedisStatsCache(address, password string, db int, ttl time.Duration) (*RedisStatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStatsCacheWithClient(client, ttl), nil
}

func NewRedisStatsCacheWithClient(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func statsKey(userID string) string {
	return statsKeyPrefix + userID
}

func (c *RedisStatsCache) GetStats(ctx context.Context, userID string) (models.ProfileStats, bool, error) {
	vals, err := c.client.HGetAll(ctx, statsKey(userID)).Result()
	if err != nil {
		return models.ProfileStats{}, false, fmt.Errorf("redis get stats: %w", err)
	}
	if len(vals) == 0 {
		return models.ProfileStats{}, false, nil
	}

	followers, err := strconv.ParseInt(vals[fieldFollowers], 10, 64)
	if err != nil {
		return models.ProfileStats{}, false, fmt.Errorf("parse followers count: %w", err)
	}
	following, err := strconv.ParseInt(vals[fieldFollowing], 10, 64)
	if err != nil {
		return models.ProfileStats{}, false, fmt.Errorf("parse following count: %w", err)
	}
	return models.ProfileStats{Followers: followers, Following: following}, true, nil
}

func (c *RedisStatsCache) SetStats(ctx context.Context, userID string, stats models.ProfileStats) error {
	key := statsKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldFollowers, stats.Followers, fieldFollowing, stats.Following)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set stats: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis invalidate stats: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

var _ StatsCache = (*RedisStatsCache)(nil)
