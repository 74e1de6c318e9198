package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/cache"
	"github.com/oggyb/ideaji/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	return cache.NewRedisCache(cfg), mr
}

func TestUnreadCount(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, ok, err := c.GetUnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetUnreadCount(ctx, "u1", 3))
	n, ok, err := c.GetUnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	require.NoError(t, c.InvalidateUnread(ctx, "u1", "u2"))
	assert.False(t, mr.Exists(c.KeyForUnreadCount("u1")))
}

func TestLeaderboardExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	type row struct{ Name string }
	require.NoError(t, c.SetLeaderboard(ctx, 10, []row{{Name: "ada"}}))

	var got []row
	ok, err := c.GetLeaderboard(ctx, 10, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ada", got[0].Name)

	mr.FastForward(2 * time.Minute)
	ok, err = c.GetLeaderboard(ctx, 10, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnreadCountHitDoesNotExtendTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, c.SetUnreadCount(ctx, "u1", 2))
	initial := mr.TTL(c.KeyForUnreadCount("u1"))
	require.Positive(t, initial)

	mr.FastForward(initial / 2)
	_, ok, err := c.GetUnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.LessOrEqual(t, mr.TTL(c.KeyForUnreadCount("u1")), initial/2)

	// a polling user cannot keep a stale count alive
	mr.FastForward(initial)
	_, ok, err = c.GetUnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeaderboardPagesExpireIndependently(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	type row struct{ Name string }
	require.NoError(t, c.SetLeaderboard(ctx, 10, []row{{Name: "ada"}}))
	mr.FastForward(40 * time.Second)
	require.NoError(t, c.SetLeaderboard(ctx, 20, []row{{Name: "bob"}}))
	mr.FastForward(30 * time.Second)

	var got []row
	ok, err := c.GetLeaderboard(ctx, 10, &got)
	require.NoError(t, err)
	assert.False(t, ok, "older page must not be kept alive by a newer write")

	ok, err = c.GetLeaderboard(ctx, 20, &got)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.SetLeaderboard(ctx, 10, []row{{Name: "ada"}}))
	require.NoError(t, c.InvalidateLeaderboard(ctx))
	assert.False(t, mr.Exists(c.KeyForLeaderboard(10)))
	assert.False(t, mr.Exists(c.KeyForLeaderboard(20)))
}
