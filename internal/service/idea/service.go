package idea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/identity"
	"github.com/oggyb/ideaji/internal/metrics"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/service/view"
	"github.com/oggyb/ideaji/internal/utils/pagination"
	"github.com/oggyb/ideaji/internal/validation"
)

// PointsForIdea is credited to the author of every submitted idea.
const PointsForIdea = 50

// Service implements idea submission, browsing and moderation.
type Service struct {
	appCtx           *app.AppContext
	ideaRepo         *repository.IdeaRepository
	userRepo         *repository.UserRepository
	feedbackRepo     *repository.FeedbackRepository
	notificationRepo *repository.NotificationRepository
}

func NewIdeaService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:           appCtx,
		ideaRepo:         repository.NewIdeaRepository(appCtx.DB),
		userRepo:         repository.NewUserRepository(appCtx.DB),
		feedbackRepo:     repository.NewFeedbackRepository(appCtx.DB),
		notificationRepo: repository.NewNotificationRepository(appCtx.DB),
	}
}

type CreateInput struct {
	Title          string   `json:"title" validate:"required,min=3"`
	Description    string   `json:"description" validate:"required,min=10"`
	Problem        string   `json:"problem" validate:"required,min=10"`
	Solution       string   `json:"solution" validate:"required,min=10"`
	TargetAudience *string  `json:"targetAudience"`
	MarketSize     *string  `json:"marketSize"`
	Competition    *string  `json:"competition"`
	BusinessModel  *string  `json:"businessModel"`
	Tags           []string `json:"tags" validate:"omitempty,dive,max=64"`
	MediaURLs      *string  `json:"mediaUrls"`
	AudioURL       *string  `json:"audioUrl" validate:"omitempty,url"`
	VideoURL       *string  `json:"videoUrl" validate:"omitempty,url"`
	MediaType      string   `json:"mediaType" validate:"omitempty,oneof=TEXT AUDIO VIDEO MIXED"`
	IsAnonymous    bool     `json:"isAnonymous"`
}

// UpdateInput carries the fields to change; nil means unchanged.
// A non-nil Tags replaces every tag link.
type UpdateInput struct {
	Title          *string  `json:"title" validate:"omitempty,min=3"`
	Description    *string  `json:"description" validate:"omitempty,min=10"`
	Problem        *string  `json:"problem" validate:"omitempty,min=10"`
	Solution       *string  `json:"solution" validate:"omitempty,min=10"`
	TargetAudience *string  `json:"targetAudience"`
	MarketSize     *string  `json:"marketSize"`
	Competition    *string  `json:"competition"`
	BusinessModel  *string  `json:"businessModel"`
	Status         *string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED FEATURED ARCHIVED"`
	Tags           []string `json:"tags" validate:"omitempty,dive,max=64"`
	MediaURLs      *string  `json:"mediaUrls"`
}

// ListInput filters List. Status defaults to PUBLISHED.
type ListInput struct {
	Status    string
	Tag       string
	Search    string
	MediaType string
	Page      pagination.Page
}

// View is an idea as returned to callers, with the owner masked when anonymous.
type View struct {
	db.Idea
	User          view.UserRef `json:"user"`
	FeedbackCount int64        `json:"feedbackCount"`
}

// FeedbackView is a feedback row on the idea detail page.
type FeedbackView struct {
	db.Feedback
	User view.UserRef `json:"user"`
}

// Detail is the full idea page.
type Detail struct {
	View
	Feedbacks []FeedbackView `json:"feedbacks"`
}

type CreateResult struct {
	Idea          View  `json:"idea"`
	PointsAwarded int64 `json:"pointsAwarded"`
}

type ListResult struct {
	Ideas      []View          `json:"ideas"`
	Pagination pagination.Info `json:"pagination"`
}

// MediaTypeFor picks the media type from the attached URLs.
// With no audio or video URL the requested type (default TEXT) is kept.
func MediaTypeFor(requested string, audioURL, videoURL *string) string {
	hasAudio := audioURL != nil && *audioURL != ""
	hasVideo := videoURL != nil && *videoURL != ""
	switch {
	case hasAudio && hasVideo:
		return db.MediaMixed
	case hasAudio:
		return db.MediaAudio
	case hasVideo:
		return db.MediaVideo
	case requested != "":
		return requested
	default:
		return db.MediaText
	}
}

// Create stores a DRAFT idea for userID.
//
// Behavior:
//   - Tags are connected by name, missing ones are created.
//   - In the same transaction the author gets +50 points, ideas_count += 1
//     and a SYSTEM notification.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*CreateResult, error) {
	s.appCtx.Logger.Debug("Create idea called", "user", userID, "title", in.Title)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	idea := &db.Idea{
		UserID:         userID,
		Title:          in.Title,
		Description:    in.Description,
		Problem:        in.Problem,
		Solution:       in.Solution,
		TargetAudience: in.TargetAudience,
		MarketSize:     in.MarketSize,
		Competition:    in.Competition,
		BusinessModel:  in.BusinessModel,
		MediaURLs:      in.MediaURLs,
		AudioURL:       in.AudioURL,
		VideoURL:       in.VideoURL,
		MediaType:      MediaTypeFor(in.MediaType, in.AudioURL, in.VideoURL),
		Status:         db.StatusDraft,
		IsAnonymous:    in.IsAnonymous,
	}

	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ideas := s.ideaRepo.WithTx(tx)

		tags, err := ideas.ResolveTags(ctx, normalizeTags(in.Tags))
		if err != nil {
			return err
		}
		idea.Tags = tags
		if err := ideas.Create(ctx, idea); err != nil {
			return err
		}
		if err := s.userRepo.WithTx(tx).AwardIdea(ctx, userID, PointsForIdea); err != nil {
			return err
		}

		ideaID := idea.ID
		return s.notificationRepo.WithTx(tx).Create(ctx, &db.Notification{
			UserID:    userID,
			Type:      db.NotificationSystem,
			Title:     "Idea Submitted Successfully",
			Content:   fmt.Sprintf("Your idea %q has been submitted successfully. You've earned %d points!", idea.Title, PointsForIdea),
			RelatedID: &ideaID,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleRow) {
			return nil, svcErr.Conflict("author no longer exists", err)
		}
		s.appCtx.Logger.Error("create idea failed", "user", userID, "err", err)
		return nil, svcErr.Internal("failed to create idea", err)
	}

	metrics.RecordPointsAwarded("idea", PointsForIdea)
	s.appCtx.InvalidateUnread(ctx, userID)
	s.appCtx.InvalidateLeaderboard(ctx)

	created, err := s.ideaRepo.FindDetail(ctx, idea.ID)
	if err != nil {
		return nil, svcErr.Internal("failed to load idea", err)
	}
	return &CreateResult{Idea: toView(*created, 0, true), PointsAwarded: PointsForIdea}, nil
}

// List returns one page of ideas, newest first.
func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	filter := repository.IdeaFilter{
		Status:    in.Status,
		Tag:       in.Tag,
		Search:    in.Search,
		MediaType: in.MediaType,
	}
	if filter.Status == "" {
		filter.Status = db.StatusPublished
	}

	ideas, total, err := s.ideaRepo.List(ctx, filter, in.Page)
	if err != nil {
		s.appCtx.Logger.Error("list ideas failed", "err", err)
		return nil, svcErr.Internal("failed to fetch ideas", err)
	}

	ids := make([]string, 0, len(ideas))
	for _, i := range ideas {
		ids = append(ids, i.ID)
	}
	counts, err := s.feedbackRepo.CountByIdeas(ctx, ids)
	if err != nil {
		return nil, svcErr.Internal("failed to fetch ideas", err)
	}

	out := &ListResult{Ideas: make([]View, 0, len(ideas)), Pagination: in.Page.Info(total)}
	for _, i := range ideas {
		out.Ideas = append(out.Ideas, toView(i, counts[i.ID], false))
	}
	return out, nil
}

// Get loads the idea page and counts the view.
// The owner of an anonymous idea is masked except for the owner and admins.
func (s *Service) Get(ctx context.Context, viewer identity.Principal, id string) (*Detail, error) {
	idea, err := s.ideaRepo.FindDetail(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("idea not found")
	} else if err != nil {
		return nil, svcErr.Internal("failed to fetch idea", err)
	}

	if err := s.ideaRepo.IncrementViews(ctx, id); err != nil {
		s.appCtx.Logger.Warn("view count update failed", "idea", id, "err", err)
	} else {
		idea.Views++
	}

	reveal := viewer.UserID == idea.UserID || viewer.IsAdmin()
	d := &Detail{
		View:      toView(*idea, int64(len(idea.Feedbacks)), reveal),
		Feedbacks: make([]FeedbackView, 0, len(idea.Feedbacks)),
	}
	for _, fb := range idea.Feedbacks {
		d.Feedbacks = append(d.Feedbacks, FeedbackView{Feedback: fb, User: view.Ref(fb.User)})
	}
	return d, nil
}

// Update changes an idea. Only the owner or an admin may do it.
func (s *Service) Update(ctx context.Context, p identity.Principal, id string, in UpdateInput) (*View, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, p, id, "update"); err != nil {
		return nil, err
	}

	cols := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}
	set("title", in.Title)
	set("description", in.Description)
	set("problem", in.Problem)
	set("solution", in.Solution)
	set("target_audience", in.TargetAudience)
	set("market_size", in.MarketSize)
	set("competition", in.Competition)
	set("business_model", in.BusinessModel)
	set("status", in.Status)
	set("media_urls", in.MediaURLs)

	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ideas := s.ideaRepo.WithTx(tx)
		if err := ideas.Update(ctx, id, cols); err != nil {
			return err
		}
		if in.Tags == nil {
			return nil
		}
		tags, err := ideas.ResolveTags(ctx, normalizeTags(in.Tags))
		if err != nil {
			return err
		}
		return ideas.ReplaceTags(ctx, &db.Idea{Model: db.Model{ID: id}}, tags)
	})
	if err != nil {
		s.appCtx.Logger.Error("update idea failed", "idea", id, "err", err)
		return nil, svcErr.Internal("failed to update idea", err)
	}

	updated, err := s.ideaRepo.FindDetail(ctx, id)
	if err != nil {
		return nil, svcErr.Internal("failed to load idea", err)
	}
	v := toView(*updated, int64(len(updated.Feedbacks)), true)
	return &v, nil
}

// Delete removes an idea with its feedback, tag links and AI summary.
// Only the owner or an admin may do it.
func (s *Service) Delete(ctx context.Context, p identity.Principal, id string) error {
	if _, err := s.authorize(ctx, p, id, "delete"); err != nil {
		return err
	}
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ideaRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		s.appCtx.Logger.Error("delete idea failed", "idea", id, "err", err)
		return svcErr.Internal("failed to delete idea", err)
	}
	s.appCtx.Logger.Info("idea deleted", "idea", id, "by", p.UserID)
	return nil
}

func (s *Service) authorize(ctx context.Context, p identity.Principal, id, verb string) (*db.Idea, error) {
	idea, err := s.ideaRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("idea not found")
	} else if err != nil {
		return nil, svcErr.Internal("failed to fetch idea", err)
	}
	if idea.UserID != p.UserID && !p.IsAdmin() {
		return nil, svcErr.Forbidden("you don't have permission to " + verb + " this idea")
	}
	return idea, nil
}

func toView(i db.Idea, feedbackCount int64, reveal bool) View {
	owner := view.Owner(i)
	if reveal {
		owner = view.Ref(i.User)
	}
	if i.Tags == nil {
		i.Tags = []db.Tag{}
	}
	return View{Idea: i, User: owner, FeedbackCount: feedbackCount}
}

// normalizeTags trims names and drops blanks and duplicates.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
