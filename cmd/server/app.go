package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/config"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/platform/postgres"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/service"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/service/auth"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/session"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/store"
)

// application bundles the wired dependencies of a running server.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	wordStore store.WordStore

	// Session engine
	sessionStore    *session.Store
	flashcardEngine *session.FlashcardEngine
	quizEngine      *session.QuizEngine
	sessionFacade   *service.SessionFacade

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Cancels background work (session reaper) on shutdown.
	stopBackground context.CancelFunc
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost)
	app.wordStore = postgres.NewPostgresWordStore(db, logger)

	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	app.sessionStore = session.NewStore(ttl, logger)

	rng := session.NewRandSource(time.Now().UnixNano())
	generator := session.NewGenerator(rng)

	app.flashcardEngine = session.NewFlashcardEngine(app.sessionStore, app.wordStore, rng, logger)
	app.quizEngine = session.NewQuizEngine(app.sessionStore, app.wordStore, generator, rng, logger)

	app.sessionFacade = service.NewSessionFacade(
		app.wordStore,
		app.flashcardEngine,
		app.quizEngine,
		logger,
	)

	// Start the session reaper; it runs until shutdown cancels the
	// background context.
	backgroundCtx, cancel := context.WithCancel(ctx)
	app.stopBackground = cancel
	interval := time.Duration(cfg.Session.ReaperIntervalSeconds) * time.Second
	go app.sessionStore.StartReaper(backgroundCtx, interval)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup stops background work during shutdown.
func (app *application) cleanup() {
	if app.stopBackground != nil {
		app.stopBackground()
	}
}
