package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/ideaji/internal/db"
)

// SummaryRepository stores the generated SWOT analysis, one row per idea.
type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(database *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: database}
}

func (r *SummaryRepository) FindByIdea(ctx context.Context, ideaID string) (*db.AISummary, error) {
	var s db.AISummary
	if err := r.db.WithContext(ctx).First(&s, "idea_id = ?", ideaID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert stores s as the idea's summary, replacing any previous analysis,
// and returns the row as persisted.
func (r *SummaryRepository) Upsert(ctx context.Context, s *db.AISummary) (*db.AISummary, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "idea_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content", "strengths", "weaknesses", "opportunities", "threats", "updated_at",
			}),
		}).
		Create(s).Error
	if err != nil {
		return nil, err
	}
	return r.FindByIdea(ctx, s.IdeaID)
}
