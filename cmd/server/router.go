package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/api"
	apiMiddleware "github.com/SzymonBartkowiak43/quizzzlet/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	sessionHandler := api.NewSessionHandler(app.sessionFacade, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Flashcard session endpoints
			r.Post("/flashcards/sessions", sessionHandler.StartFlashcards)
			r.Post("/flashcards/sessions/{id}/answer", sessionHandler.AnswerFlashcard)
			r.Get("/flashcards/sessions/{id}", sessionHandler.GetFlashcardStatus)
			r.Delete("/flashcards/sessions/{id}", sessionHandler.EndFlashcards)

			// Quiz session endpoints
			r.Post("/quiz/sessions", sessionHandler.StartQuiz)
			r.Post("/quiz/sessions/{id}/answer", sessionHandler.AnswerQuiz)
			r.Get("/quiz/sessions/{id}", sessionHandler.GetQuizStatus)
			r.Delete("/quiz/sessions/{id}", sessionHandler.EndQuiz)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
