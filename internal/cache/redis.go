package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/ideaji/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	// unreadTTL bounds how long a count cached by a read that raced a
	// write can survive; hits never extend it.
	unreadTTL      = 5 * time.Minute
	leaderboardTTL = time.Minute

	leaderboardPrefix = "leaderboard:points:"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForUnreadCount generates the Redis key for a user's unread notification count.
func (c *RedisCache) KeyForUnreadCount(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// GetUnreadCount returns the cached count and whether it was present.
func (c *RedisCache) GetUnreadCount(ctx context.Context, userID string) (int64, bool, error) {
	key := c.KeyForUnreadCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (c *RedisCache) SetUnreadCount(ctx context.Context, userID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(userID), count, unreadTTL).Err()
}

// InvalidateUnread drops cached unread counts for the given users.
func (c *RedisCache) InvalidateUnread(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForUnreadCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}

// KeyForLeaderboard generates the Redis key of one leaderboard page.
// Each page size has its own key and expiry.
func (c *RedisCache) KeyForLeaderboard(limit int) string {
	return leaderboardPrefix + strconv.Itoa(limit)
}

// GetLeaderboard decodes the cached leaderboard page for limit into dst.
// Returns false on miss.
func (c *RedisCache) GetLeaderboard(ctx context.Context, limit int, dst any) (bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForLeaderboard(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// SetLeaderboard caches one leaderboard page for leaderboardTTL.
func (c *RedisCache) SetLeaderboard(ctx context.Context, limit int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.KeyForLeaderboard(limit), b, leaderboardTTL).Err()
}

// InvalidateLeaderboard drops every cached leaderboard page.
func (c *RedisCache) InvalidateLeaderboard(ctx context.Context) error {
	var keys []string
	iter := c.Client.Scan(ctx, 0, leaderboardPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}
