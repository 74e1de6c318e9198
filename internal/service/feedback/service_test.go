package feedback_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/service/feedback"
	"github.com/oggyb/ideaji/internal/testutil"
)

//
// Test helpers
//

// fixture is the minimal dataset used by the service tests.
//
// Dataset:
//   - owner: owns `idea` (public) and `secret` (anonymous)
//   - reviewer, other: plain users with 0 points
type fixture struct {
	appCtx   *app.AppContext
	mr       *miniredis.Miniredis
	svc      *feedback.Service
	owner    *db.User
	reviewer *db.User
	other    *db.User
	idea     *db.Idea
	secret   *db.Idea
}

// setupService spins up an in-memory SQLite DB and a miniredis, seeds the
// fixture and wires everything into a feedback Service.
func setupService(t *testing.T) *fixture {
	t.Helper()
	appCtx, mr := testutil.NewAppContext(t)
	gdb := appCtx.DB

	f := &fixture{appCtx: appCtx, mr: mr, svc: feedback.NewFeedbackService(appCtx)}
	f.owner = testutil.CreateUser(t, gdb, "owner", 0)
	f.reviewer = testutil.CreateUser(t, gdb, "reviewer", 0)
	f.other = testutil.CreateUser(t, gdb, "other", 0)
	f.idea = testutil.CreateIdea(t, gdb, f.owner.ID, "Budget Buddy", false)
	f.secret = testutil.CreateIdea(t, gdb, f.owner.ID, "Stealth Mode", true)
	return f
}

func reload[T any](t *testing.T, gdb *gorm.DB, id string) T {
	t.Helper()
	var v T
	require.NoError(t, gdb.First(&v, "id = ?", id).Error)
	return v
}

func notifications(t *testing.T, gdb *gorm.DB, userID string) []db.Notification {
	t.Helper()
	var ns []db.Notification
	require.NoError(t, gdb.Where("user_id = ?", userID).Order("created_at").Find(&ns).Error)
	return ns
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

//
// Tests
//

func TestSubmit_FirstLike(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	res, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "like"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.PointsAwarded)
	assert.True(t, res.Created)

	reviewer := reload[db.User](t, f.appCtx.DB, f.reviewer.ID)
	assert.Equal(t, int64(10), reviewer.Points)
	assert.Equal(t, int64(1), reviewer.FeedbackCount)
	assert.NotNil(t, reviewer.LastActive)

	idea := reload[db.Idea](t, f.appCtx.DB, f.idea.ID)
	assert.Equal(t, int64(1), idea.Upvotes)
	assert.Equal(t, int64(0), idea.Downvotes)
	assert.Equal(t, int64(1), idea.Views)

	ownerNs := notifications(t, f.appCtx.DB, f.owner.ID)
	require.Len(t, ownerNs, 1)
	assert.Equal(t, db.NotificationFeedback, ownerNs[0].Type)
	assert.Contains(t, ownerNs[0].Content, "a like")
	assert.Equal(t, f.idea.ID, *ownerNs[0].RelatedID)

	reviewerNs := notifications(t, f.appCtx.DB, f.reviewer.ID)
	require.Len(t, reviewerNs, 1)
	assert.Equal(t, db.NotificationSystem, reviewerNs[0].Type)
	assert.Contains(t, reviewerNs[0].Content, "10 points")
}

func TestSubmit_ResubmitIsPureEdit(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	first, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{
		IdeaID: f.idea.ID, Action: "like", Tags: []string{"Innovative"},
	})
	require.NoError(t, err)
	require.NotNil(t, first.Feedback.Tags)

	// move the first write into the past so the edit's timestamp is observable
	before := first.Feedback.UpdatedAt.Add(-time.Minute)
	require.NoError(t, f.appCtx.DB.Model(&db.Feedback{}).
		Where("id = ?", first.Feedback.ID).
		UpdateColumn("updated_at", before).Error)

	res, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{
		IdeaID: f.idea.ID, Action: "detailed", Rating: intPtr(4), Comment: strPtr("nice"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.PointsAwarded)
	assert.False(t, res.Created)
	assert.Equal(t, first.Feedback.ID, res.Feedback.ID)
	assert.Equal(t, "detailed", res.Feedback.Action)
	assert.Equal(t, 4, *res.Feedback.Rating)
	assert.Equal(t, "nice", *res.Feedback.Comment)
	assert.True(t, res.Feedback.UpdatedAt.After(before), "edit must refresh updatedAt")
	assert.True(t, res.Feedback.CreatedAt.Equal(first.Feedback.CreatedAt))

	// omitted tags clear the stored value
	assert.Nil(t, res.Feedback.Tags)
	stored := reload[db.Feedback](t, f.appCtx.DB, res.Feedback.ID)
	assert.Nil(t, stored.Tags)
	assert.True(t, stored.UpdatedAt.After(before))

	var count int64
	require.NoError(t, f.appCtx.DB.Model(&db.Feedback{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	reviewer := reload[db.User](t, f.appCtx.DB, f.reviewer.ID)
	assert.Equal(t, int64(10), reviewer.Points)
	assert.Equal(t, int64(1), reviewer.FeedbackCount)

	idea := reload[db.Idea](t, f.appCtx.DB, f.idea.ID)
	assert.Equal(t, int64(1), idea.Upvotes)
	assert.Equal(t, int64(1), idea.Views)

	assert.Len(t, notifications(t, f.appCtx.DB, f.owner.ID), 1)
	assert.Len(t, notifications(t, f.appCtx.DB, f.reviewer.ID), 1)
}

func TestSubmit_ConcurrentFirstSubmissionsAwardOnce(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		awarded int64
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "like"})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Created {
				created++
			}
			awarded += res.PointsAwarded
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, int64(feedback.PointsLike), awarded)

	reviewer := reload[db.User](t, f.appCtx.DB, f.reviewer.ID)
	assert.Equal(t, int64(feedback.PointsLike), reviewer.Points)
	assert.Equal(t, int64(1), reviewer.FeedbackCount)

	var rows int64
	require.NoError(t, f.appCtx.DB.Model(&db.Feedback{}).Where("idea_id = ?", f.idea.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestSubmit_DetailedTiersAndPass(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	res, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{
		IdeaID: f.idea.ID, Action: "detailed", Rating: intPtr(5), Comment: strPtr("great"),
		Tags: []string{"Innovative", "x", "fintech"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.PointsAwarded)
	assert.Equal(t, "Innovative,fintech", *res.Feedback.Tags)

	res, err = f.svc.Submit(ctx, f.other.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "pass"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.PointsAwarded)

	idea := reload[db.Idea](t, f.appCtx.DB, f.idea.ID)
	assert.Equal(t, int64(0), idea.Upvotes)
	assert.Equal(t, int64(1), idea.Downvotes)
	assert.Equal(t, int64(2), idea.Views)
}

func TestSubmit_OwnIdeaForbidden(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	for _, action := range []string{"like", "pass", "detailed"} {
		_, err := f.svc.Submit(ctx, f.owner.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: action, Rating: intPtr(5)})
		require.Error(t, err)
		assert.ErrorIs(t, err, feedback.ErrOwnIdea)
		assert.Equal(t, svcErr.KindForbidden, svcErr.KindOf(err))
	}
	owner := reload[db.User](t, f.appCtx.DB, f.owner.ID)
	assert.Equal(t, int64(0), owner.Points)
}

func TestSubmit_ValidationAndNotFound(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "love", Rating: intPtr(9)})
	var e *svcErr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindInvalidInput, e.Kind)
	assert.Contains(t, e.Fields, "action")
	assert.Contains(t, e.Fields, "rating")

	_, err = f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: "missing", Action: "like"})
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	_, err = f.svc.Submit(ctx, "", feedback.SubmitInput{IdeaID: f.idea.ID, Action: "like"})
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)
}

func TestSubmit_VanishedReviewerRollsBack(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Submit(ctx, "ghost-user", feedback.SubmitInput{IdeaID: f.idea.ID, Action: "like"})
	assert.ErrorIs(t, err, svcErr.ErrConflict)

	var count int64
	require.NoError(t, f.appCtx.DB.Model(&db.Feedback{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, notifications(t, f.appCtx.DB, f.owner.ID))
	idea := reload[db.Idea](t, f.appCtx.DB, f.idea.ID)
	assert.Zero(t, idea.Views)
}

func TestSubmit_AnonymousIdeaSkipsOwnerNotification(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.secret.ID, Action: "like"})
	require.NoError(t, err)
	assert.Empty(t, notifications(t, f.appCtx.DB, f.owner.ID))
	assert.Len(t, notifications(t, f.appCtx.DB, f.reviewer.ID), 1)
}

func TestSubmit_InvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	rc := f.appCtx.RedisCache
	require.NoError(t, rc.SetUnreadCount(ctx, f.owner.ID, 0))
	require.NoError(t, rc.SetLeaderboard(ctx, 10, []string{"stale"}))

	_, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "like"})
	require.NoError(t, err)

	assert.False(t, f.mr.Exists(rc.KeyForUnreadCount(f.owner.ID)))
	assert.False(t, f.mr.Exists(rc.KeyForLeaderboard(10)))
}

func TestList_StatsAndAnonymity(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "like", Rating: intPtr(4)})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.other.ID, feedback.SubmitInput{IdeaID: f.idea.ID, Action: "pass"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.reviewer.ID, feedback.SubmitInput{IdeaID: f.secret.ID, Action: "detailed", Rating: intPtr(2)})
	require.NoError(t, err)

	res, err := f.svc.List(ctx, feedback.ListInput{IdeaID: f.idea.ID})
	require.NoError(t, err)
	require.Len(t, res.Feedback, 2)
	require.NotNil(t, res.Stats)
	assert.Equal(t, int64(2), res.Stats.Total)
	assert.Equal(t, int64(1), res.Stats.Likes)
	assert.InDelta(t, 50.0, res.Stats.LikePercentage, 0.001)
	assert.InDelta(t, 4.0, res.Stats.AverageRating, 0.001)
	assert.Equal(t, f.owner.ID, res.Feedback[0].Idea.User.ID)

	byUser, err := f.svc.List(ctx, feedback.ListInput{UserID: f.reviewer.ID, Action: "bogus"})
	require.NoError(t, err)
	assert.Nil(t, byUser.Stats)
	require.Len(t, byUser.Feedback, 2)
	for _, item := range byUser.Feedback {
		if item.IdeaID == f.secret.ID {
			assert.Equal(t, "anonymous", item.Idea.User.ID)
			assert.Equal(t, "Anonymous", item.Idea.User.Name)
		}
		assert.Equal(t, "reviewer", item.User.Name)
	}

	onlyLikes, err := f.svc.List(ctx, feedback.ListInput{UserID: f.reviewer.ID, Action: "like"})
	require.NoError(t, err)
	assert.Len(t, onlyLikes.Feedback, 1)
}

func TestList_Errors(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.List(ctx, feedback.ListInput{})
	assert.ErrorIs(t, err, svcErr.ErrInvalidInput)

	_, err = f.svc.List(ctx, feedback.ListInput{IdeaID: "missing"})
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	empty, err := f.svc.List(ctx, feedback.ListInput{IdeaID: f.idea.ID})
	require.NoError(t, err)
	assert.Empty(t, empty.Feedback)
	assert.Zero(t, empty.Stats.LikePercentage)
	assert.Zero(t, empty.Stats.AverageRating)
}
