package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/laev/remem-api/internal/config"
	"github.com/laev/remem-api/internal/platform/postgres"
	"github.com/laev/remem-api/internal/service/auth"
	"github.com/laev/remem-api/internal/service/review"
	"github.com/laev/remem-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces, so tests can substitute in-memory fakes)
	userStore    store.UserStore
	itemStore    store.ItemStore
	windowStore  store.WindowStore
	outcomeStore store.OutcomeStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	reviewService    review.ReviewService
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger and database connection must already
// be established.
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

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.itemStore = postgres.NewPostgresItemStore(db, logger)
	app.windowStore = postgres.NewPostgresWindowStore(db, logger)
	app.outcomeStore = postgres.NewPostgresOutcomeStore(db, logger)

	app.reviewService = review.NewReviewService(
		db,
		app.itemStore,
		app.windowStore,
		app.outcomeStore,
		cfg.Review,
		logger,
	)
	logger.Info("Review service initialized",
		"reject_duplicate_outcome", cfg.Review.RejectDuplicateOutcome,
		"lock_timeout_millis", cfg.Review.LockTimeoutMillis)

	return app, nil
}

// cleanup releases resources held by the application. It is called during
// graceful shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		} else {
			app.logger.Info("Database connection closed")
		}
	}
}
