package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/service/notification"
	"github.com/oggyb/ideaji/internal/testutil"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

func TestList_UsesCachedUnreadCount(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := testutil.NewAppContext(t)
	svc := notification.NewNotificationService(appCtx)
	u := testutil.CreateUser(t, appCtx.DB, "ada", 0)

	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, appCtx.DB.Create(&db.Notification{
			UserID: u.ID, Type: db.NotificationSystem, Title: title, Content: title,
		}).Error)
	}

	page := pagination.Page{Page: 1, Limit: 2}
	res, err := svc.List(ctx, u.ID, false, page)
	require.NoError(t, err)
	assert.Len(t, res.Notifications, 2)
	assert.Equal(t, int64(3), res.Pagination.Total)
	assert.Equal(t, int64(2), res.Pagination.Pages)
	assert.Equal(t, int64(3), res.UnreadCount)

	cached, err := mr.Get(appCtx.RedisCache.KeyForUnreadCount(u.ID))
	require.NoError(t, err)
	assert.Equal(t, "3", cached)

	// a stale cache value is served until invalidated
	require.NoError(t, mr.Set(appCtx.RedisCache.KeyForUnreadCount(u.ID), "7"))
	n, err := svc.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := testutil.NewAppContext(t)
	svc := notification.NewNotificationService(appCtx)
	ada := testutil.CreateUser(t, appCtx.DB, "ada", 0)
	bob := testutil.CreateUser(t, appCtx.DB, "bob", 0)

	mine := &db.Notification{UserID: ada.ID, Type: db.NotificationSystem, Title: "a", Content: "a"}
	other := &db.Notification{UserID: ada.ID, Type: db.NotificationSystem, Title: "b", Content: "b"}
	theirs := &db.Notification{UserID: bob.ID, Type: db.NotificationSystem, Title: "c", Content: "c"}
	require.NoError(t, appCtx.DB.Create([]*db.Notification{mine, other, theirs}).Error)

	_, err := svc.UnreadCount(ctx, ada.ID) // warm the cache
	require.NoError(t, err)

	n, err := svc.MarkRead(ctx, ada.ID, notification.MarkReadInput{IDs: []string{mine.ID, theirs.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists(appCtx.RedisCache.KeyForUnreadCount(ada.ID)))

	unread, err := svc.UnreadCount(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	n, err = svc.MarkRead(ctx, ada.ID, notification.MarkReadInput{All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	bobUnread, err := svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobUnread)

	_, err = svc.MarkRead(ctx, ada.ID, notification.MarkReadInput{})
	assert.ErrorIs(t, err, svcErr.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := testutil.NewAppContext(t)
	svc := notification.NewNotificationService(appCtx)
	ada := testutil.CreateUser(t, appCtx.DB, "ada", 0)
	bob := testutil.CreateUser(t, appCtx.DB, "bob", 0)

	n := &db.Notification{UserID: ada.ID, Type: db.NotificationSystem, Title: "a", Content: "a"}
	require.NoError(t, appCtx.DB.Create(n).Error)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, n.ID), svcErr.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, ada.ID, "missing"), svcErr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ada.ID, ""), svcErr.ErrInvalidInput)
	require.NoError(t, svc.Delete(ctx, ada.ID, n.ID))

	require.NoError(t, appCtx.DB.Create(&db.Notification{UserID: ada.ID, Type: db.NotificationSystem, Title: "x", Content: "x"}).Error)
	require.NoError(t, appCtx.DB.Create(&db.Notification{UserID: bob.ID, Type: db.NotificationSystem, Title: "y", Content: "y"}).Error)
	deleted, err := svc.DeleteAll(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var left int64
	require.NoError(t, appCtx.DB.Model(&db.Notification{}).Count(&left).Error)
	assert.Equal(t, int64(1), left)
}
