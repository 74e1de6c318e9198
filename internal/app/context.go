package app

import (
	"context"
	"log/slog"

	"github.com/oggyb/ideaji/internal/cache"
	"gorm.io/gorm"
)

// AppContext holds shared dependencies (DB, Redis, Logger)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
	}
}

// InvalidateUnread drops cached unread counters after a commit.
// Cache failures are logged and otherwise ignored.
func (a *AppContext) InvalidateUnread(ctx context.Context, userIDs ...string) {
	if a.RedisCache == nil {
		return
	}
	if err := a.RedisCache.InvalidateUnread(ctx, userIDs...); err != nil {
		a.Logger.Warn("unread cache invalidation failed", "users", userIDs, "err", err)
	}
}

// InvalidateLeaderboard drops the cached leaderboard after points change.
func (a *AppContext) InvalidateLeaderboard(ctx context.Context) {
	if a.RedisCache == nil {
		return
	}
	if err := a.RedisCache.InvalidateLeaderboard(ctx); err != nil {
		a.Logger.Warn("leaderboard cache invalidation failed", "err", err)
	}
}
