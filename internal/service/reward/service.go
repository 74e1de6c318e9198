package reward

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/identity"
	"github.com/oggyb/ideaji/internal/metrics"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/validation"
)

var (
	ErrNotEnoughPoints = svcErr.InvalidInput("you don't have enough points to redeem this reward", nil)
	ErrUserNotFound    = svcErr.NotFound("user not found")
	ErrUnavailable     = svcErr.InvalidInput("this reward is not available for redemption", nil)
)

type Service struct {
	appCtx     *app.AppContext
	rewardRepo *repository.RewardRepository
	userRepo   *repository.UserRepository
}

func NewRewardService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		rewardRepo: repository.NewRewardRepository(appCtx.DB),
		userRepo:   repository.NewUserRepository(appCtx.DB),
	}
}

type CreateInput struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=10"`
	PointsCost  int64   `json:"pointsCost" validate:"gte=1"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	IsAvailable *bool   `json:"isAvailable"`
}

type RedeemInput struct {
	RewardID string `json:"rewardId" validate:"required"`
}

type RedeemResult struct {
	Redemption      db.Redemption `json:"redemption"`
	RemainingPoints int64         `json:"remainingPoints"`
}

// List returns rewards cheapest first, optionally filtered by availability.
func (s *Service) List(ctx context.Context, available *bool) ([]db.Reward, error) {
	rewards, err := s.rewardRepo.List(ctx, available)
	if err != nil {
		s.appCtx.Logger.Error("list rewards failed", "err", err)
		return nil, svcErr.Internal("failed to fetch rewards", err)
	}
	if rewards == nil {
		rewards = []db.Reward{}
	}
	return rewards, nil
}

// Create adds a reward to the catalog. Admin only; new rewards are available unless stated.
func (s *Service) Create(ctx context.Context, p identity.Principal, in CreateInput) (*db.Reward, error) {
	if !p.IsAdmin() {
		return nil, svcErr.Forbidden("only administrators can create rewards")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	rw := &db.Reward{
		Name:        in.Name,
		Description: in.Description,
		PointsCost:  in.PointsCost,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.rewardRepo.Create(ctx, rw); err != nil {
		s.appCtx.Logger.Error("create reward failed", "err", err)
		return nil, svcErr.Internal("failed to create reward", err)
	}
	s.appCtx.Logger.Info("reward created", "reward", rw.ID, "by", p.UserID)
	return rw, nil
}

// Redeem spends the user's points on a reward.
//
// Behavior:
//   - The deduction is conditional (points >= cost) so concurrent redemptions
//     can never overdraw the balance.
//   - The redemption keeps the cost at the time of purchase.
func (s *Service) Redeem(ctx context.Context, userID string, in RedeemInput) (*RedeemResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	rw, err := s.rewardRepo.FindByID(ctx, in.RewardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("reward not found")
	} else if err != nil {
		return nil, svcErr.Internal("failed to fetch reward", err)
	}
	if !rw.IsAvailable {
		return nil, ErrUnavailable
	}

	res := &RedeemResult{}
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		ok, err := users.DeductPoints(ctx, userID, rw.PointsCost)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := users.FindByID(ctx, userID); errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			} else if err != nil {
				return err
			}
			return ErrNotEnoughPoints
		}

		res.Redemption = db.Redemption{UserID: userID, RewardID: rw.ID, PointsCost: rw.PointsCost}
		if err := s.rewardRepo.WithTx(tx).CreateRedemption(ctx, &res.Redemption); err != nil {
			return err
		}
		res.Redemption.Reward = *rw

		res.RemainingPoints, err = users.Points(ctx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotEnoughPoints) || errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		s.appCtx.Logger.Error("redeem failed", "user", userID, "reward", rw.ID, "err", err)
		return nil, svcErr.Internal("failed to redeem reward", err)
	}

	metrics.RecordPointsSpent(rw.PointsCost)
	s.appCtx.InvalidateLeaderboard(ctx)
	s.appCtx.Logger.Info("reward redeemed", "user", userID, "reward", rw.ID, "cost", rw.PointsCost)
	return res, nil
}

// History lists the user's redemptions newest first.
func (s *Service) History(ctx context.Context, userID string) ([]db.Redemption, error) {
	rows, err := s.rewardRepo.ListRedemptions(ctx, userID)
	if err != nil {
		return nil, svcErr.Internal("failed to fetch redemption history", err)
	}
	if rows == nil {
		rows = []db.Redemption{}
	}
	return rows, nil
}
