package leaderboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/db"
	"github.com/oggyb/ideaji/internal/service/leaderboard"
	"github.com/oggyb/ideaji/internal/testutil"
)

func TestTop_RanksAndCaches(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := testutil.NewAppContext(t)
	svc := leaderboard.NewLeaderboardService(appCtx)

	testutil.CreateUser(t, appCtx.DB, "low", 5)
	high := testutil.CreateUser(t, appCtx.DB, "high", 500)
	testutil.CreateUser(t, appCtx.DB, "mid", 50)

	top, err := svc.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, high.ID, top[0].ID)
	assert.Equal(t, "mid", top[1].Name)

	// served from cache until invalidated
	require.NoError(t, appCtx.DB.Model(&db.User{}).Where("name = ?", "low").Update("points", 1000).Error)
	top, err = svc.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "high", top[0].Name)

	appCtx.InvalidateLeaderboard(ctx)
	top, err = svc.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "low", top[0].Name)
}

func TestTop_LimitBounds(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := testutil.NewAppContext(t)
	svc := leaderboard.NewLeaderboardService(appCtx)
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		testutil.CreateUser(t, appCtx.DB, n, 1)
	}

	top, err := svc.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, leaderboard.DefaultLimit)

	top, err = svc.Top(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, top, 12)
}
