package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/ai"
	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/identity"
	"github.com/oggyb/ideaji/internal/metrics"
	"github.com/oggyb/ideaji/internal/repository"
)

const systemPrompt = "You are an expert business analyst and startup advisor with deep knowledge of technology, market trends, and business models."

// Completer produces a model answer for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

type Service struct {
	appCtx       *app.AppContext
	completer    Completer
	ideaRepo     *repository.IdeaRepository
	feedbackRepo *repository.FeedbackRepository
	summaryRepo  *repository.SummaryRepository
}

func NewAnalysisService(appCtx *app.AppContext, completer Completer) *Service {
	return &Service{
		appCtx:       appCtx,
		completer:    completer,
		ideaRepo:     repository.NewIdeaRepository(appCtx.DB),
		feedbackRepo: repository.NewFeedbackRepository(appCtx.DB),
		summaryRepo:  repository.NewSummaryRepository(appCtx.DB),
	}
}

// Generate runs a SWOT analysis of the idea and stores it, replacing any
// previous one. Only the owner or an admin may trigger it.
func (s *Service) Generate(ctx context.Context, p identity.Principal, ideaID string) (*db.AISummary, error) {
	idea, err := s.ideaRepo.FindDetail(ctx, ideaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("idea not found")
	} else if err != nil {
		return nil, svcErr.Internal("failed to fetch idea", err)
	}
	if idea.UserID != p.UserID && !p.IsAdmin() {
		return nil, svcErr.Forbidden("you don't have permission to generate AI analysis for this idea")
	}

	stats, err := s.feedbackRepo.Stats(ctx, ideaID)
	if err != nil {
		return nil, svcErr.Internal("failed to fetch feedback stats", err)
	}

	text, err := s.completer.Complete(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: BuildPrompt(idea, stats)},
	})
	if err != nil {
		metrics.RecordAIAnalysis(false)
		s.appCtx.Logger.Error("ai completion failed", "idea", ideaID, "err", err)
		return nil, svcErr.Internal("failed to generate AI analysis", err)
	}

	sec := ExtractSections(text)
	summary, err := s.summaryRepo.Upsert(ctx, &db.AISummary{
		IdeaID:        ideaID,
		Content:       sec.Summary,
		Strengths:     sec.Strengths,
		Weaknesses:    sec.Weaknesses,
		Opportunities: sec.Opportunities,
		Threats:       sec.Threats,
	})
	if err != nil {
		metrics.RecordAIAnalysis(false)
		return nil, svcErr.Internal("failed to store AI analysis", err)
	}

	metrics.RecordAIAnalysis(true)
	s.appCtx.Logger.Info("ai analysis generated", "idea", ideaID, "by", p.UserID)
	return summary, nil
}

// Get returns the stored analysis of an idea.
func (s *Service) Get(ctx context.Context, ideaID string) (*db.AISummary, error) {
	if _, err := s.ideaRepo.FindByID(ctx, ideaID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("idea not found")
	} else if err != nil {
		return nil, svcErr.Internal("failed to fetch idea", err)
	}

	summary, err := s.summaryRepo.FindByIdea(ctx, ideaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("AI analysis not found for this idea")
	} else if err != nil {
		return nil, svcErr.Internal("failed to fetch AI analysis", err)
	}
	return summary, nil
}

// BuildPrompt renders the analysis request for an idea.
func BuildPrompt(idea *db.Idea, stats repository.FeedbackStats) string {
	orNS := func(v *string) string {
		if v == nil || strings.TrimSpace(*v) == "" {
			return "Not specified"
		}
		return *v
	}
	tags := make([]string, 0, len(idea.Tags))
	for _, t := range idea.Tags {
		tags = append(tags, t.Name)
	}

	var b strings.Builder
	b.WriteString("Please analyze the following startup/app idea and provide a comprehensive SWOT analysis (Strengths, Weaknesses, Opportunities, Threats).\n\n")
	b.WriteString("IDEA DETAILS:\n")
	fmt.Fprintf(&b, "Title: %s\n", idea.Title)
	fmt.Fprintf(&b, "Description: %s\n", idea.Description)
	fmt.Fprintf(&b, "Problem Statement: %s\n", idea.Problem)
	fmt.Fprintf(&b, "Proposed Solution: %s\n", idea.Solution)
	fmt.Fprintf(&b, "Target Audience: %s\n", orNS(idea.TargetAudience))
	fmt.Fprintf(&b, "Market Size: %s\n", orNS(idea.MarketSize))
	fmt.Fprintf(&b, "Competition: %s\n", orNS(idea.Competition))
	fmt.Fprintf(&b, "Business Model: %s\n", orNS(idea.BusinessModel))
	fmt.Fprintf(&b, "Tags/Categories: %s\n\n", strings.Join(tags, ", "))
	b.WriteString("Community Feedback:\n")
	fmt.Fprintf(&b, "- Number of feedback submissions: %d\n", stats.Total)
	fmt.Fprintf(&b, "- Average rating (1-5): %.1f\n\n", stats.AverageRating)
	b.WriteString("Please structure your analysis as follows:\n")
	b.WriteString("1. Summary (2-3 paragraphs summarizing the idea and its potential)\n")
	b.WriteString("2. Strengths (bullet points)\n")
	b.WriteString("3. Weaknesses (bullet points)\n")
	b.WriteString("4. Opportunities (bullet points)\n")
	b.WriteString("5. Threats (bullet points)\n\n")
	b.WriteString("Be honest, constructive, and provide actionable insights. Focus on both business and technical aspects.")
	return b.String()
}
