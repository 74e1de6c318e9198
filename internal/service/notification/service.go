package notification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

type Service struct {
	appCtx *app.AppContext
	repo   *repository.NotificationRepository
}

func NewNotificationService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		repo:   repository.NewNotificationRepository(appCtx.DB),
	}
}

type ListResult struct {
	Notifications []db.Notification `json:"notifications"`
	Pagination    pagination.Info   `json:"pagination"`
	UnreadCount   int64             `json:"unreadCount"`
}

// MarkReadInput selects notifications to flag: either explicit ids or all.
type MarkReadInput struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// List returns a page of the user's notifications plus the unread counter.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, page pagination.Page) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, userID, unreadOnly, page)
	if err != nil {
		s.appCtx.Logger.Error("list notifications failed", "user", userID, "err", err)
		return nil, svcErr.Internal("failed to fetch notifications", err)
	}
	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []db.Notification{}
	}
	return &ListResult{Notifications: rows, Pagination: page.Info(total), UnreadCount: unread}, nil
}

// UnreadCount serves the counter from Redis, falling back to the DB on miss or cache error.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	rc := s.appCtx.RedisCache
	if rc != nil {
		n, ok, err := rc.GetUnreadCount(ctx, userID)
		if err != nil {
			s.appCtx.Logger.Warn("unread cache read failed", "user", userID, "err", err)
		} else if ok {
			return n, nil
		}
	}

	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, svcErr.Internal("failed to count notifications", err)
	}
	if rc != nil {
		if err := rc.SetUnreadCount(ctx, userID, n); err != nil {
			s.appCtx.Logger.Warn("unread cache write failed", "user", userID, "err", err)
		}
	}
	return n, nil
}

// MarkRead flags notifications as read. Ids that belong to other users are ignored.
func (s *Service) MarkRead(ctx context.Context, userID string, in MarkReadInput) (int64, error) {
	var (
		n   int64
		err error
	)
	switch {
	case in.All:
		n, err = s.repo.MarkAllRead(ctx, userID)
	case len(in.IDs) > 0:
		n, err = s.repo.MarkRead(ctx, userID, in.IDs)
	default:
		return 0, svcErr.InvalidInput(`either "ids" or "all" is required`, nil)
	}
	if err != nil {
		s.appCtx.Logger.Error("mark notifications read failed", "user", userID, "err", err)
		return 0, svcErr.Internal("failed to mark notifications as read", err)
	}
	s.appCtx.InvalidateUnread(ctx, userID)
	return n, nil
}

// Delete removes one notification owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return svcErr.InvalidInput(`either "id" or "all" is required`, nil)
	}
	n, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("notification not found")
	} else if err != nil {
		return svcErr.Internal("failed to fetch notification", err)
	}
	if n.UserID != userID {
		return svcErr.Forbidden("you can only delete your own notifications")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return svcErr.Internal("failed to delete notification", err)
	}
	s.appCtx.InvalidateUnread(ctx, userID)
	return nil
}

// DeleteAll clears every notification of userID.
func (s *Service) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, svcErr.Internal("failed to delete notifications", err)
	}
	s.appCtx.InvalidateUnread(ctx, userID)
	return n, nil
}
