package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/db"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/testutil"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

func TestIdeaCreateWithTagsAndList(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewIdeaRepository(gdb)
	owner := testutil.CreateUser(t, gdb, "owner", 0)

	tags, err := repo.ResolveTags(ctx, []string{"fintech", "ai"})
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// resolving again reuses the rows
	again, err := repo.ResolveTags(ctx, []string{"ai"})
	require.NoError(t, err)
	assert.Equal(t, tags[0].ID, again[0].ID)

	idea := &db.Idea{
		UserID: owner.ID, Title: "Budget Buddy", Description: "Tracks spending for students",
		Problem: "Students overspend", Solution: "Weekly nudges", MediaType: db.MediaText,
		Status: db.StatusPublished, Tags: tags,
	}
	require.NoError(t, repo.Create(ctx, idea))
	testutil.CreateIdea(t, gdb, owner.ID, "Other thing", false)

	page := pagination.Page{Page: 1, Limit: 10}

	byTag, total, err := repo.List(ctx, repository.IdeaFilter{Tag: "fintech"}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byTag, 1)
	assert.Len(t, byTag[0].Tags, 2)
	assert.Equal(t, owner.ID, byTag[0].User.ID)

	bySearch, total, err := repo.List(ctx, repository.IdeaFilter{Search: "OVERSPEND"}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, idea.ID, bySearch[0].ID)

	all, total, err := repo.List(ctx, repository.IdeaFilter{Status: db.StatusPublished}, pagination.Page{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 1)
}

func TestApplyFeedbackCounters(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewIdeaRepository(gdb)
	owner := testutil.CreateUser(t, gdb, "owner", 0)
	idea := testutil.CreateIdea(t, gdb, owner.ID, "idea", false)

	require.NoError(t, repo.ApplyFeedback(ctx, idea.ID, db.ActionLike))
	require.NoError(t, repo.ApplyFeedback(ctx, idea.ID, db.ActionPass))
	require.NoError(t, repo.ApplyFeedback(ctx, idea.ID, db.ActionDetailed))

	got, err := repo.FindByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Upvotes)
	assert.Equal(t, int64(1), got.Downvotes)
	assert.Equal(t, int64(3), got.Views)

	assert.ErrorIs(t, repo.ApplyFeedback(ctx, "missing", db.ActionLike), repository.ErrStaleRow)
}

func TestIdeaDeleteCascades(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewIdeaRepository(gdb)
	owner := testutil.CreateUser(t, gdb, "owner", 0)
	reviewer := testutil.CreateUser(t, gdb, "reviewer", 0)
	idea := testutil.CreateIdea(t, gdb, owner.ID, "idea", false)

	_, err := repository.NewFeedbackRepository(gdb).InsertIfAbsent(ctx, &db.Feedback{IdeaID: idea.ID, UserID: reviewer.ID, Action: db.ActionLike})
	require.NoError(t, err)
	chat := &db.Chat{IdeaID: &idea.ID}
	require.NoError(t, repository.NewChatRepository(gdb).Create(ctx, chat, []string{owner.ID, reviewer.ID}))

	require.NoError(t, repo.Delete(ctx, idea.ID))

	var n int64
	require.NoError(t, gdb.Model(&db.Feedback{}).Count(&n).Error)
	assert.Zero(t, n)

	kept, err := repository.NewChatRepository(gdb).FindByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.IdeaID)
}
