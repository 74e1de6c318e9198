package leaderboard

import (
	"context"

	"github.com/oggyb/ideaji/internal/app"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Entry is one ranked user.
type Entry struct {
	Rank          int     `json:"rank"`
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Image         *string `json:"image"`
	Points        int64   `json:"points"`
	IdeasCount    int64   `json:"ideasCount"`
	FeedbackCount int64   `json:"feedbackCount"`
}

type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

func NewLeaderboardService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, userRepo: repository.NewUserRepository(appCtx.DB)}
}

// Top returns the highest scoring users. Pages are cached briefly in Redis
// and dropped whenever points change.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rc := s.appCtx.RedisCache
	if rc != nil {
		var cached []Entry
		ok, err := rc.GetLeaderboard(ctx, limit, &cached)
		if err != nil {
			s.appCtx.Logger.Warn("leaderboard cache read failed", "err", err)
		} else if ok {
			return cached, nil
		}
	}

	users, err := s.userRepo.TopByPoints(ctx, limit)
	if err != nil {
		s.appCtx.Logger.Error("leaderboard query failed", "err", err)
		return nil, svcErr.Internal("failed to fetch leaderboard", err)
	}

	out := make([]Entry, 0, len(users))
	for i, u := range users {
		out = append(out, Entry{
			Rank:          i + 1,
			ID:            u.ID,
			Name:          u.Name,
			Image:         u.Image,
			Points:        u.Points,
			IdeasCount:    u.IdeasCount,
			FeedbackCount: u.FeedbackCount,
		})
	}

	if rc != nil {
		if err := rc.SetLeaderboard(ctx, limit, out); err != nil {
			s.appCtx.Logger.Warn("leaderboard cache write failed", "err", err)
		}
	}
	return out, nil
}
