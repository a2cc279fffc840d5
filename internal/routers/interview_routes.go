package routers

import (
	"github.com/chenhw7/MoonLight/internal/handlers"
	"github.com/chenhw7/MoonLight/internal/middleware"
	"github.com/chenhw7/MoonLight/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, sessions *handlers.SessionHandler, messages *handlers.MessageHandler, evaluations *handlers.EvaluationHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).Post("/", sessions.CreateHandler)
		r.Get("/", sessions.ListHandler)
		r.Get("/configs", sessions.ConfigsHandler)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sessions.GetHandler)
			r.Post("/complete", sessions.CompleteHandler)
			r.Post("/abort", sessions.AbortHandler)

			r.Get("/messages", messages.ListHandler)
			r.With(middleware.ValidateRequest[*models.SendMessageRequest]()).Post("/messages", messages.SendHandler)
			r.With(middleware.ValidateRequest[*models.SendMessageRequest]()).Post("/messages/stream", messages.StreamHandler)
			r.Get("/progress", messages.ProgressHandler)
			r.Post("/next-round", messages.NextRoundHandler)

			r.Post("/evaluation", evaluations.GenerateHandler)
			r.Get("/evaluation", evaluations.GetHandler)
		})
	})
}
