package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/db"
)

// RewardRepository stores the reward catalog and redemptions.
type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(database *gorm.DB) *RewardRepository {
	return &RewardRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *RewardRepository) WithTx(tx *gorm.DB) *RewardRepository {
	return &RewardRepository{db: tx}
}

// List returns rewards cheapest first. available == nil lists all of them.
func (r *RewardRepository) List(ctx context.Context, available *bool) ([]db.Reward, error) {
	q := r.db.WithContext(ctx).Order("points_cost ASC, name ASC")
	if available != nil {
		q = q.Where("is_available = ?", *available)
	}
	var rewards []db.Reward
	err := q.Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) FindByID(ctx context.Context, id string) (*db.Reward, error) {
	var rw db.Reward
	if err := r.db.WithContext(ctx).First(&rw, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rw, nil
}

func (r *RewardRepository) Create(ctx context.Context, rw *db.Reward) error {
	return r.db.WithContext(ctx).Create(rw).Error
}

// CreateRedemption records a purchase. The reward itself is not re-saved.
func (r *RewardRepository) CreateRedemption(ctx context.Context, red *db.Redemption) error {
	return r.db.WithContext(ctx).Omit("Reward").Create(red).Error
}

// ListRedemptions returns a user's redemptions newest first with the reward loaded.
func (r *RewardRepository) ListRedemptions(ctx context.Context, userID string) ([]db.Redemption, error) {
	var rows []db.Redemption
	err := r.db.WithContext(ctx).
		Preload("Reward").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}
