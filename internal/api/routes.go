package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		if s.LoginRatePerMinute > 0 {
			r.Use(rateLimitMiddleware(s.LoginRatePerMinute, time.Minute))
		}
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/logout", s.handleLogout)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Post("/", s.handleAddCard)
			r.Get("/categories", s.handleCategories)
			r.Post("/save", s.handleSaveCards)
			r.Post("/load", s.handleLoadCards)
			r.Post("/import", s.handleImportCards)
			r.Get("/export", s.handleExportCards)
			r.Put("/{index}", s.handleEditCard)
			r.Delete("/{index}", s.handleDeleteCard)
			r.Post("/{index}/schedule", s.handleScheduleCard)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/start", s.handleStartQuiz)
			r.Get("/current", s.handleCurrentQuestion)
			r.Post("/answer", s.handleAnswer)
			r.Get("/result", s.handleQuizResult)
			r.Post("/record", s.handleRecordResult)
			r.Post("/abandon", s.handleAbandonQuiz)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/stats/progress", s.handleProgress)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)
		r.Get("/theme", s.handleGetTheme)
		r.Put("/theme", s.handleUpdateTheme)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard/me", s.handleLeaderboardEntry)
		r.Get("/achievements", s.handleAchievements)
	})

	return r
}
