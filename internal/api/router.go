package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/sleep-coach/docs"
	"github.com/blaisecz/sleep-coach/internal/api/handler"
	"github.com/blaisecz/sleep-coach/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Questionnaire *handler.QuestionnaireHandler
	Onboarding    *handler.OnboardingHandler
	Session       *handler.SessionHandler
	Dream         *handler.DreamHandler
	Dashboard     *handler.DashboardHandler
	Coach         *handler.CoachHandler
	Lab           *handler.LabHandler
}

type Router struct {
	handlers Handlers
	verifier middleware.TokenVerifier
	logger   *zap.Logger
}

func NewRouter(handlers Handlers, verifier middleware.TokenVerifier, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		handlers: handlers,
		verifier: verifier,
		logger:   logger,
	}
}

func (rt *Router) Setup() http.Handler {
	h := rt.handlers
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.RequestLogger(rt.logger))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/guest", h.Auth.Guest)
			r.Post("/demo", h.Auth.Demo)
		})

		r.Route("/questionnaires", func(r chi.Router) {
			r.Get("/", h.Questionnaire.List)
			r.Get("/{variant}", h.Questionnaire.Get)
		})

		r.Route("/lab", func(r chi.Router) {
			r.Get("/bedtimes", h.Lab.Bedtimes)
			r.Post("/sleep-debt", h.Lab.SleepDebt)
			r.Get("/breathing", h.Lab.Breathing)
		})

		// Everything under a user requires that user's bearer token
		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(middleware.RequireUser(rt.verifier))

			r.Get("/", h.User.GetByID)
			r.Get("/assessments", h.User.Assessments)

			r.Route("/onboarding", func(r chi.Router) {
				r.Post("/", h.Onboarding.Start)
				r.Get("/", h.Onboarding.Get)
				r.Delete("/", h.Onboarding.Cancel)
				r.Put("/answers", h.Onboarding.SetAnswer)
				r.Post("/toggle", h.Onboarding.Toggle)
				r.Post("/next", h.Onboarding.Next)
				r.Post("/back", h.Onboarding.Back)
			})

			r.Route("/sleep-sessions", func(r chi.Router) {
				r.Post("/", h.Session.Create)
				r.Get("/", h.Session.List)
			})

			r.Route("/dreams", func(r chi.Router) {
				r.Post("/", h.Dream.Save)
				r.Post("/interpret", h.Dream.Interpret)
			})

			r.Get("/dashboard", h.Dashboard.Get)

			r.Route("/coach", func(r chi.Router) {
				r.Get("/messages", h.Coach.Transcript)
				r.Post("/messages", h.Coach.Send)
			})

			r.Post("/advice/feedback", h.Coach.PostFeedback)
		})
	})

	return r
}
