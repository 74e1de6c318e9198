package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/ideaji/internal/db"
)

// FeedbackRepository provides data access methods for the Feedback model.
// It encapsulates the per-(idea, reviewer) upsert and the read-side queries.
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new repository bound to the given DB connection.
func NewFeedbackRepository(database *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *FeedbackRepository) WithTx(tx *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: tx}
}

// FeedbackFilter selects rows for List. Empty fields are ignored.
type FeedbackFilter struct {
	IdeaID string
	UserID string
	Action string
}

// FeedbackStats aggregates the feedback of one idea.
type FeedbackStats struct {
	Total          int64   `json:"total"`
	Likes          int64   `json:"likes"`
	Passes         int64   `json:"passes"`
	Detailed       int64   `json:"detailed"`
	AverageRating  float64 `json:"averageRating"`
	LikePercentage float64 `json:"likePercentage"`
}

// InsertIfAbsent inserts fb unless a row for (idea_id, user_id) already exists.
//
// Behavior:
//   - Relies on the unique index idx_feedback_idea_user, so the check and the
//     insert are one statement and two racing first submissions cannot both win.
//   - Returns true only when this call inserted the row.
//   - On conflict fb is left untouched in the DB; the caller reloads the existing row.
//
// Example:
//
//	inserted, err := repo.InsertIfAbsent(ctx, &db.Feedback{IdeaID: ideaID, UserID: uid, Action: "like"})
func (r *FeedbackRepository) InsertIfAbsent(ctx context.Context, fb *db.Feedback) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idea_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(fb)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByIdeaAndUser returns the reviewer's feedback on an idea.
// Returns gorm.ErrRecordNotFound when the reviewer has not reviewed it.
func (r *FeedbackRepository) FindByIdeaAndUser(ctx context.Context, ideaID, userID string) (*db.Feedback, error) {
	var fb db.Feedback
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ?", ideaID, userID).
		First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// UpdateContent overwrites the editable fields of an existing feedback row.
// nil rating/comment/tags clear the stored value.
func (r *FeedbackRepository) UpdateContent(
	ctx context.Context,
	id, action string,
	rating *int,
	comment, tags *string,
) error {
	return r.db.WithContext(ctx).
		Model(&db.Feedback{Model: db.Model{ID: id}}).
		Updates(map[string]any{
			"action":  action,
			"rating":  rating,
			"comment": comment,
			"tags":    tags,
		}).Error
}

// List returns feedback rows newest first with reviewer, idea and idea owner loaded.
func (r *FeedbackRepository) List(ctx context.Context, f FeedbackFilter) ([]db.Feedback, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Idea").
		Preload("Idea.User").
		Order("created_at DESC, id DESC")

	if f.IdeaID != "" {
		q = q.Where("idea_id = ?", f.IdeaID)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	var rows []db.Feedback
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Stats aggregates the feedback of one idea in a single query.
//
// AverageRating ignores rows without a rating and is 0 when there are none.
// LikePercentage is likes/total*100, or 0 for an idea without feedback.
func (r *FeedbackRepository) Stats(ctx context.Context, ideaID string) (FeedbackStats, error) {
	var row struct {
		Total         int64
		Likes         int64
		Passes        int64
		Detailed      int64
		AverageRating float64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Feedback{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) AS likes,
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) AS passes,
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) AS detailed,
			COALESCE(AVG(rating), 0) AS average_rating`,
			db.ActionLike, db.ActionPass, db.ActionDetailed).
		Where("idea_id = ?", ideaID).
		Scan(&row).Error
	if err != nil {
		return FeedbackStats{}, err
	}

	stats := FeedbackStats{
		Total:         row.Total,
		Likes:         row.Likes,
		Passes:        row.Passes,
		Detailed:      row.Detailed,
		AverageRating: row.AverageRating,
	}
	if stats.Total > 0 {
		stats.LikePercentage = float64(stats.Likes) / float64(stats.Total) * 100
	}
	return stats, nil
}

// CountByIdeas returns the number of feedback rows per idea id.
// Ideas without feedback are absent from the map.
func (r *FeedbackRepository) CountByIdeas(ctx context.Context, ideaIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		IdeaID string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Feedback{}).
		Select("idea_id, COUNT(*) AS n").
		Where("idea_id IN ?", ideaIDs).
		Group("idea_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.IdeaID] = row.N
	}
	return out, nil
}
