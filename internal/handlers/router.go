package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/metrics"
	"github.com/oggyb/ideaji/internal/middleware"
	"github.com/oggyb/ideaji/internal/service/analysis"
	"github.com/oggyb/ideaji/internal/service/auth"
	"github.com/oggyb/ideaji/internal/service/chat"
	"github.com/oggyb/ideaji/internal/service/feedback"
	"github.com/oggyb/ideaji/internal/service/idea"
	"github.com/oggyb/ideaji/internal/service/leaderboard"
	"github.com/oggyb/ideaji/internal/service/notification"
	"github.com/oggyb/ideaji/internal/service/reward"
)

// Deps is everything the REST API needs.
type Deps struct {
	AppCtx         *app.AppContext
	Verifier       middleware.Verifier
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string

	Auth          *auth.Service
	Ideas         *idea.Service
	Feedback      *feedback.Service
	Notifications *notification.Service
	Rewards       *reward.Service
	Chats         *chat.Service
	Analysis      *analysis.Service
	Leaderboard   *leaderboard.Service
}

// Handler implements the REST endpoints on top of the services.
type Handler struct {
	Deps
	logger *slog.Logger
}

// NewRouter wires every route.
//
// Reads of public content accept an optional token; everything else requires
// one. Writes go through the per-user rate limiter.
func NewRouter(d Deps) http.Handler {
	h := &Handler{Deps: d, logger: d.AppCtx.Logger}

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimw.Timeout(90 * time.Second))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(d.Limiter.Handler)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
	})

	// public reads
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(d.Verifier, h.logger))
		r.Get("/ideas", h.ListIdeas)
		r.Get("/ideas/{id}", h.GetIdea)
		r.Get("/ideas/{id}/ai-analysis", h.GetAnalysis)
		r.Get("/rewards", h.ListRewards)
		r.Get("/leaderboard", h.GetLeaderboard)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Verifier, h.logger))
		write := r.With(d.Limiter.Handler)

		r.Get("/me", h.Me)

		write.Post("/ideas", h.CreateIdea)
		write.Patch("/ideas/{id}", h.UpdateIdea)
		write.Delete("/ideas/{id}", h.DeleteIdea)
		write.Post("/ideas/{id}/ai-analysis", h.GenerateAnalysis)

		write.Post("/feedback", h.SubmitFeedback)
		r.Get("/feedback", h.ListFeedback)

		r.Get("/notifications", h.ListNotifications)
		write.Post("/notifications/read", h.MarkNotificationsRead)
		write.Delete("/notifications", h.DeleteNotifications)

		write.Post("/rewards", h.CreateReward)
		write.Post("/rewards/redeem", h.RedeemReward)
		r.Get("/rewards/redemptions", h.RedemptionHistory)

		r.Get("/chats", h.ListChats)
		write.Post("/chats", h.CreateChat)
		r.Get("/chats/{id}/messages", h.ListMessages)
		write.Post("/chats/{id}/messages", h.SendMessage)
	})

	return r
}
