package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/db"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

// NotificationRepository stores user-addressed notifications.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create inserts all notifications in one statement.
func (r *NotificationRepository) Create(ctx context.Context, ns ...*db.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ns).Error
}

// List returns one page of a user's notifications, newest first.
func (r *NotificationRepository) List(
	ctx context.Context,
	userID string,
	unreadOnly bool,
	page pagination.Page,
) ([]db.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&db.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []db.Notification
	err := q.Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*db.Notification, error) {
	var n db.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead flags the given notifications of userID as read.
// Ids owned by someone else are silently skipped.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkAllRead flags every unread notification of userID as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Notification{}).Error
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.Notification{})
	return res.RowsAffected, res.Error
}
