package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/ideaji/internal/db"
	"github.com/oggyb/ideaji/internal/utils/pagination"
)

// IdeaRepository provides data access for ideas, their tags and counters.
type IdeaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(database *gorm.DB) *IdeaRepository {
	return &IdeaRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *IdeaRepository) WithTx(tx *gorm.DB) *IdeaRepository {
	return &IdeaRepository{db: tx}
}

// IdeaFilter narrows List. Empty fields are ignored.
type IdeaFilter struct {
	Status    string
	Tag       string
	Search    string
	MediaType string
}

// Create inserts the idea and links its (already persisted) tags.
func (r *IdeaRepository) Create(ctx context.Context, idea *db.Idea) error {
	return r.db.WithContext(ctx).
		Omit("User", "Feedbacks", "AISummary", "Tags.*").
		Create(idea).Error
}

// ResolveTags returns the tag rows for names, creating missing ones.
func (r *IdeaRepository) ResolveTags(ctx context.Context, names []string) ([]db.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags := make([]db.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, db.Tag{Name: n})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&tags).Error
	if err != nil {
		return nil, err
	}

	var out []db.Tag
	err = r.db.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&out).Error
	return out, err
}

// ReplaceTags swaps the idea's tag links for tags. Empty tags clears them.
func (r *IdeaRepository) ReplaceTags(ctx context.Context, idea *db.Idea, tags []db.Tag) error {
	assoc := r.db.WithContext(ctx).Model(idea).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}

func (r *IdeaRepository) FindByID(ctx context.Context, id string) (*db.Idea, error) {
	var idea db.Idea
	if err := r.db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

// FindDetail loads an idea with owner, tags, AI summary and its feedback
// (newest first, with reviewers).
func (r *IdeaRepository) FindDetail(ctx context.Context, id string) (*db.Idea, error) {
	var idea db.Idea
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Preload("AISummary").
		Preload("Feedbacks", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at DESC, id DESC")
		}).
		Preload("Feedbacks.User").
		First(&idea, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// List returns one page of ideas (newest first) and the total match count.
//
// Behavior:
//   - Tag matches ideas linked to a tag with exactly that name.
//   - Search is a case-insensitive substring match over title, description,
//     problem and solution.
func (r *IdeaRepository) List(ctx context.Context, f IdeaFilter, page pagination.Page) ([]db.Idea, int64, error) {
	q := r.db.WithContext(ctx).Model(&db.Idea{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MediaType != "" {
		q = q.Where("media_type = ?", f.MediaType)
	}
	if f.Tag != "" {
		sub := r.db.Table("idea_tags").
			Select("idea_tags.idea_id").
			Joins("JOIN tags ON tags.id = idea_tags.tag_id").
			Where("tags.name = ?", f.Tag)
		q = q.Where("id IN (?)", sub)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(problem) LIKE ? OR LOWER(solution) LIKE ?",
			like, like, like, like,
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ideas []db.Idea
	err := q.Preload("User").
		Preload("Tags").
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&ideas).Error
	if err != nil {
		return nil, 0, err
	}
	return ideas, total, nil
}

// ApplyFeedback bumps the counters for a first-time feedback:
// views += 1 always, upvotes += 1 for like, downvotes += 1 for pass.
// Returns ErrStaleRow if the idea no longer exists.
func (r *IdeaRepository) ApplyFeedback(ctx context.Context, ideaID, action string) error {
	cols := map[string]any{"views": gorm.Expr("views + ?", 1)}
	switch action {
	case db.ActionLike:
		cols["upvotes"] = gorm.Expr("upvotes + ?", 1)
	case db.ActionPass:
		cols["downvotes"] = gorm.Expr("downvotes + ?", 1)
	}

	res := r.db.WithContext(ctx).Model(&db.Idea{}).Where("id = ?", ideaID).UpdateColumns(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleRow
	}
	return nil
}

// IncrementViews counts a detail page view.
func (r *IdeaRepository) IncrementViews(ctx context.Context, ideaID string) error {
	return r.db.WithContext(ctx).
		Model(&db.Idea{}).
		Where("id = ?", ideaID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// Update writes the given columns. Keys are column names.
func (r *IdeaRepository) Update(ctx context.Context, ideaID string, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.Idea{}).Where("id = ?", ideaID).Updates(cols).Error
}

// Delete removes an idea and everything hanging off it.
// Chats about the idea survive with idea_id cleared.
// Must run inside a transaction.
func (r *IdeaRepository) Delete(ctx context.Context, ideaID string) error {
	tx := r.db.WithContext(ctx)
	steps := []func() error{
		func() error { return tx.Where("idea_id = ?", ideaID).Delete(&db.Feedback{}).Error },
		func() error { return tx.Where("idea_id = ?", ideaID).Delete(&db.AISummary{}).Error },
		func() error { return tx.Exec("DELETE FROM idea_tags WHERE idea_id = ?", ideaID).Error },
		func() error {
			return tx.Model(&db.Chat{}).Where("idea_id = ?", ideaID).Update("idea_id", nil).Error
		},
		func() error { return tx.Where("id = ?", ideaID).Delete(&db.Idea{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
