package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/metrics"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/service/view"
	"github.com/oggyb/ideaji/internal/validation"
)

// ErrOwnIdea is returned when a user reviews an idea they own.
var ErrOwnIdea = svcErr.Forbidden("cannot review own idea")

// Service implements the feedback workflow on top of the repositories.
// It is shared by the REST handlers and the gRPC FeedbackService.
type Service struct {
	appCtx           *app.AppContext
	feedbackRepo     *repository.FeedbackRepository
	ideaRepo         *repository.IdeaRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
}

// NewFeedbackService creates a new feedback service with dependencies from AppContext.
func NewFeedbackService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:           appCtx,
		feedbackRepo:     repository.NewFeedbackRepository(appCtx.DB),
		ideaRepo:         repository.NewIdeaRepository(appCtx.DB),
		userRepo:         repository.NewUserRepository(appCtx.DB),
		notificationRepo: repository.NewNotificationRepository(appCtx.DB),
	}
}

// SubmitInput is the feedback payload. The reviewer never comes from here.
type SubmitInput struct {
	IdeaID  string   `json:"ideaId" validate:"required"`
	Action  string   `json:"action" validate:"required,oneof=like pass detailed"`
	Rating  *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string  `json:"comment"`
	Tags    []string `json:"tags"`
}

// SubmitResult is the persisted feedback and the points credited by this call.
type SubmitResult struct {
	Feedback      *db.Feedback `json:"feedback"`
	PointsAwarded int64        `json:"pointsAwarded"`
	Created       bool         `json:"-"`
}

// Submit records reviewerID's feedback on an idea.
//
// Behavior:
//   - One row per (idea, reviewer): the insert is conditional on the unique index.
//   - First submission: credits points, bumps user and idea counters and writes the
//     owner (unless anonymous) and reviewer notifications, all in one transaction.
//   - Later submissions only overwrite action/rating/comment/tags and award 0 points.
//   - Reviewing your own idea fails with ErrOwnIdea.
//
// Example:
//
//	res, err := svc.Submit(ctx, reviewerID, SubmitInput{IdeaID: id, Action: "like"})
func (s *Service) Submit(ctx context.Context, reviewerID string, in SubmitInput) (*SubmitResult, error) {
	s.appCtx.Logger.Debug("Submit feedback called", "reviewer", reviewerID, "idea", in.IdeaID, "action", in.Action)

	if reviewerID == "" {
		return nil, svcErr.Unauthenticated("authentication required")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	idea, err := s.ideaRepo.FindByID(ctx, in.IdeaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("idea not found")
	} else if err != nil {
		s.appCtx.Logger.Error("FindByID failed", "idea", in.IdeaID, "err", err)
		return nil, svcErr.Internal("failed to submit feedback", err)
	}
	if idea.UserID == reviewerID {
		return nil, ErrOwnIdea
	}

	comment := in.Comment
	if comment != nil && *comment == "" {
		comment = nil
	}
	award := PointsFor(in.Action, in.Rating, comment)
	tags := joinTags(in.Tags)

	res := &SubmitResult{}
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		feedbacks := s.feedbackRepo.WithTx(tx)

		row := &db.Feedback{
			IdeaID:  idea.ID,
			UserID:  reviewerID,
			Action:  in.Action,
			Rating:  in.Rating,
			Comment: comment,
			Tags:    tags,
		}
		inserted, err := feedbacks.InsertIfAbsent(ctx, row)
		if err != nil {
			return err
		}

		if !inserted {
			// edit: content only, no points, counters or notifications
			existing, err := feedbacks.FindByIdeaAndUser(ctx, idea.ID, reviewerID)
			if err != nil {
				return err
			}
			if err := feedbacks.UpdateContent(ctx, existing.ID, in.Action, in.Rating, comment, tags); err != nil {
				return err
			}
			res.Feedback, err = feedbacks.FindByIdeaAndUser(ctx, idea.ID, reviewerID)
			return err
		}

		if err := s.userRepo.WithTx(tx).AwardFeedback(ctx, reviewerID, award); err != nil {
			return err
		}
		if err := s.ideaRepo.WithTx(tx).ApplyFeedback(ctx, idea.ID, in.Action); err != nil {
			return err
		}
		if err := s.notificationRepo.WithTx(tx).Create(ctx, notificationsFor(idea, row, award)...); err != nil {
			return err
		}

		res.Feedback = row
		res.PointsAwarded = award
		res.Created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleRow) {
			s.appCtx.Logger.Warn("feedback transaction lost its rows", "idea", idea.ID, "reviewer", reviewerID, "err", err)
			return nil, svcErr.Conflict("idea or reviewer changed during submission", err)
		}
		s.appCtx.Logger.Error("feedback transaction failed", "idea", idea.ID, "reviewer", reviewerID, "err", err)
		return nil, svcErr.Internal("failed to submit feedback", err)
	}

	metrics.RecordFeedback(in.Action, res.Created)
	if res.Created {
		metrics.RecordPointsAwarded("feedback", award)
		notified := []string{reviewerID}
		if !idea.IsAnonymous {
			notified = append(notified, idea.UserID)
		}
		s.appCtx.InvalidateUnread(ctx, notified...)
		s.appCtx.InvalidateLeaderboard(ctx)
	}

	s.appCtx.Logger.Debug("Submit feedback result", "feedback", res.Feedback.ID, "created", res.Created, "points", res.PointsAwarded)
	return res, nil
}

// notificationsFor builds the notifications of a first-time feedback.
// The owner of an anonymous idea is not notified.
func notificationsFor(idea *db.Idea, fb *db.Feedback, award int64) []*db.Notification {
	var out []*db.Notification
	if !idea.IsAnonymous {
		ideaID := idea.ID
		out = append(out, &db.Notification{
			UserID:    idea.UserID,
			Type:      db.NotificationFeedback,
			Title:     "New Feedback Received",
			Content:   fmt.Sprintf("Someone provided %s on your idea %q.", describeAction(fb.Action), idea.Title),
			RelatedID: &ideaID,
		})
	}
	fbID := fb.ID
	out = append(out, &db.Notification{
		UserID:    fb.UserID,
		Type:      db.NotificationSystem,
		Title:     "Points Earned",
		Content:   fmt.Sprintf("You earned %d points for providing feedback on %q.", award, idea.Title),
		RelatedID: &fbID,
	})
	return out
}

func describeAction(action string) string {
	switch action {
	case db.ActionLike:
		return "a like"
	case db.ActionDetailed:
		return "detailed feedback"
	default:
		return "feedback"
	}
}

// ListInput filters List. At least one of IdeaID and UserID is required.
type ListInput struct {
	IdeaID string
	UserID string
	Action string
}

// Reviewer is the reviewer summary attached to listed feedback.
type Reviewer struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Image  *string `json:"image"`
	Points int64   `json:"points"`
}

// IdeaRef is the idea summary attached to listed feedback.
type IdeaRef struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	IsAnonymous bool         `json:"isAnonymous"`
	User        view.UserRef `json:"user"`
}

// Item is one listed feedback.
type Item struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"ideaId"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Rating    *int      `json:"rating"`
	Comment   *string   `json:"comment"`
	Tags      *string   `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      Reviewer  `json:"user"`
	Idea      IdeaRef   `json:"idea"`
}

// ListResult carries stats only when the list was filtered by idea.
type ListResult struct {
	Feedback []Item                    `json:"feedback"`
	Stats    *repository.FeedbackStats `json:"stats"`
}

// List returns matching feedback newest first.
//
// Behavior:
//   - An unknown action filter is ignored.
//   - Filtering by an idea that does not exist fails with NotFound.
//   - Owners of anonymous ideas are replaced by the Anonymous placeholder.
func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	s.appCtx.Logger.Debug("List feedback called", "idea", in.IdeaID, "user", in.UserID, "action", in.Action)

	if in.IdeaID == "" && in.UserID == "" {
		return nil, svcErr.InvalidInput("either ideaId or userId is required", map[string]string{
			"ideaId": "is required without userId",
		})
	}

	if in.IdeaID != "" {
		if _, err := s.ideaRepo.FindByID(ctx, in.IdeaID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("idea not found")
		} else if err != nil {
			return nil, svcErr.Internal("failed to fetch feedback", err)
		}
	}

	filter := repository.FeedbackFilter{IdeaID: in.IdeaID, UserID: in.UserID}
	switch in.Action {
	case db.ActionLike, db.ActionPass, db.ActionDetailed:
		filter.Action = in.Action
	}

	rows, err := s.feedbackRepo.List(ctx, filter)
	if err != nil {
		s.appCtx.Logger.Error("List feedback failed", "err", err)
		return nil, svcErr.Internal("failed to fetch feedback", err)
	}

	out := &ListResult{Feedback: make([]Item, 0, len(rows))}
	for _, fb := range rows {
		out.Feedback = append(out.Feedback, toItem(fb))
	}

	if in.IdeaID != "" {
		stats, err := s.feedbackRepo.Stats(ctx, in.IdeaID)
		if err != nil {
			s.appCtx.Logger.Error("feedback stats failed", "idea", in.IdeaID, "err", err)
			return nil, svcErr.Internal("failed to fetch feedback", err)
		}
		out.Stats = &stats
	}
	return out, nil
}

func toItem(fb db.Feedback) Item {
	return Item{
		ID:        fb.ID,
		IdeaID:    fb.IdeaID,
		UserID:    fb.UserID,
		Action:    fb.Action,
		Rating:    fb.Rating,
		Comment:   fb.Comment,
		Tags:      fb.Tags,
		CreatedAt: fb.CreatedAt,
		UpdatedAt: fb.UpdatedAt,
		User: Reviewer{
			ID:     fb.User.ID,
			Name:   fb.User.Name,
			Image:  fb.User.Image,
			Points: fb.User.Points,
		},
		Idea: IdeaRef{
			ID:          fb.Idea.ID,
			Title:       fb.Idea.Title,
			IsAnonymous: fb.Idea.IsAnonymous,
			User:        view.Owner(fb.Idea),
		},
	}
}
