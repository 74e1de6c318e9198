package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/db"
)

// UserRepository owns the user rows and their gamification counters.
// Counters are only changed with storage-side increments.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistingIDs returns the subset of ids that belong to a user.
func (r *UserRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error
	return out, err
}

// AwardFeedback credits a reviewer for a first-time feedback.
//
// Behavior:
//   - points += award, feedback_count += 1, last_active = now, in one UPDATE.
//   - Returns ErrStaleRow if the user row no longer exists.
func (r *UserRepository) AwardFeedback(ctx context.Context, userID string, award int64) error {
	return r.increment(ctx, userID, map[string]any{
		"points":         gorm.Expr("points + ?", award),
		"feedback_count": gorm.Expr("feedback_count + ?", 1),
		"last_active":    time.Now().UTC(),
	})
}

// AwardIdea credits an author for a submitted idea.
func (r *UserRepository) AwardIdea(ctx context.Context, userID string, award int64) error {
	return r.increment(ctx, userID, map[string]any{
		"points":      gorm.Expr("points + ?", award),
		"ideas_count": gorm.Expr("ideas_count + ?", 1),
		"last_active": time.Now().UTC(),
	})
}

// DeductPoints subtracts cost only if the balance covers it.
// Returns false, nil when the user has fewer than cost points.
//
// Example:
//
//	ok, err := repo.DeductPoints(ctx, uid, 500) // UPDATE ... WHERE id = ? AND points >= 500
func (r *UserRepository) DeductPoints(ctx context.Context, userID string, cost int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND points >= ?", userID, cost).
		Updates(map[string]any{
			"points":      gorm.Expr("points - ?", cost),
			"last_active": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Points returns the current balance.
func (r *UserRepository) Points(ctx context.Context, userID string) (int64, error) {
	var points int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Select("points").
		Scan(&points).Error
	return points, err
}

// TopByPoints returns the highest scoring users, ties broken by oldest account.
func (r *UserRepository) TopByPoints(ctx context.Context, limit int) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Order("points DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) increment(ctx context.Context, userID string, cols map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleRow
	}
	return nil
}
