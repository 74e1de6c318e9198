package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/testutil"
)

func TestAwardFeedback(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewUserRepository(gdb)
	u := testutil.CreateUser(t, gdb, "ada", 5)

	require.NoError(t, repo.AwardFeedback(ctx, u.ID, 20))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Points)
	assert.Equal(t, int64(1), got.FeedbackCount)
	assert.NotNil(t, got.LastActive)

	assert.ErrorIs(t, repo.AwardFeedback(ctx, "missing", 10), repository.ErrStaleRow)
}

func TestDeductPoints(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewUserRepository(gdb)
	u := testutil.CreateUser(t, gdb, "ada", 100)

	ok, err := repo.DeductPoints(ctx, u.ID, 150)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeductPoints(ctx, u.ID, 100)
	require.NoError(t, err)
	assert.True(t, ok)

	points, err := repo.Points(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), points)
}

func TestTopByPointsAndExistingIDs(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewUserRepository(gdb)
	low := testutil.CreateUser(t, gdb, "low", 1)
	high := testutil.CreateUser(t, gdb, "high", 99)

	top, err := repo.TopByPoints(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, high.ID, top[0].ID)

	ids, err := repo.ExistingIDs(ctx, []string{low.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{low.ID}, ids)
}
