package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/platform/logger"
	"github.com/laev/remem-api/internal/store"
)

// PostgresWindowStore implements the store.WindowStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWindowStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWindowStore creates a new PostgreSQL implementation of the
// WindowStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWindowStore(db store.DBTX, logger *slog.Logger) *PostgresWindowStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWindowStore{
		db:     db,
		logger: logger.With(slog.String("component", "window_store")),
	}
}

// Ensure PostgresWindowStore implements store.WindowStore interface
var _ store.WindowStore = (*PostgresWindowStore)(nil)

// WithTx implements store.WindowStore.WithTx
func (s *PostgresWindowStore) WithTx(tx *sql.Tx) store.WindowStore {
	return &PostgresWindowStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WindowStore.Create
// Returns store.ErrInvalidEntity if the item doesn't exist (foreign key violation).
func (s *PostgresWindowStore) Create(ctx context.Context, window *domain.ReviewWindow) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := window.Validate(); err != nil {
		log.Warn("window validation failed during create",
			slog.String("error", err.Error()),
			slog.String("window_id", window.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_windows (id, item_id, start_at, end_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, window.ID, window.ItemID, window.Start, window.End)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during window creation",
				slog.String("error", err.Error()),
				slog.String("item_id", window.ItemID.String()))
			return fmt.Errorf("%w: item with ID %s not found",
				store.ErrInvalidEntity, window.ItemID)
		}

		log.Error("failed to create review window",
			slog.String("error", err.Error()),
			slog.String("window_id", window.ID.String()))
		return err
	}

	log.Debug("review window created",
		slog.String("window_id", window.ID.String()),
		slog.String("item_id", window.ItemID.String()),
		slog.Time("start", window.Start))
	return nil
}

// ListByItem implements store.WindowStore.ListByItem
func (s *PostgresWindowStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewWindow, error) {
	query := `
		SELECT id, item_id, start_at, end_at
		FROM review_windows
		WHERE item_id = $1
		ORDER BY start_at
	`
	return s.queryWindows(ctx, query, itemID)
}

// WindowsContaining implements store.WindowStore.WindowsContaining
// It returns the item's windows whose [start, end) interval contains at.
func (s *PostgresWindowStore) WindowsContaining(ctx context.Context, itemID uuid.UUID, at time.Time) ([]*domain.ReviewWindow, error) {
	query := `
		SELECT id, item_id, start_at, end_at
		FROM review_windows
		WHERE item_id = $1 AND start_at <= $2 AND $2 < end_at
		ORDER BY start_at
	`
	return s.queryWindows(ctx, query, itemID, at)
}

// FutureWindows implements store.WindowStore.FutureWindows
func (s *PostgresWindowStore) FutureWindows(ctx context.Context, itemID uuid.UUID, now time.Time) ([]*domain.ReviewWindow, error) {
	query := `
		SELECT id, item_id, start_at, end_at
		FROM review_windows
		WHERE item_id = $1 AND start_at > $2
		ORDER BY start_at
	`
	return s.queryWindows(ctx, query, itemID, now)
}

// DeleteFuture implements store.WindowStore.DeleteFuture
// It removes windows with start strictly after now; past windows stay.
func (s *PostgresWindowStore) DeleteFuture(ctx context.Context, itemID uuid.UUID, now time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM review_windows WHERE item_id = $1 AND start_at > $2`

	result, err := s.db.ExecContext(ctx, query, itemID, now)
	if err != nil {
		log.Error("failed to delete future windows",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return err
	}

	if n, err := result.RowsAffected(); err == nil {
		log.Debug("deleted future windows",
			slog.String("item_id", itemID.String()),
			slog.Int64("count", n))
	}
	return nil
}

// ShiftFutureByOneDay implements store.WindowStore.ShiftFutureByOneDay
// It moves both boundaries of every future window forward uniformly, which
// preserves ordering and the non-overlap invariant.
func (s *PostgresWindowStore) ShiftFutureByOneDay(ctx context.Context, itemID uuid.UUID, now time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE review_windows
		SET start_at = start_at + INTERVAL '1 day',
		    end_at   = end_at   + INTERVAL '1 day'
		WHERE item_id = $1 AND start_at > $2
	`

	result, err := s.db.ExecContext(ctx, query, itemID, now)
	if err != nil {
		log.Error("failed to shift future windows",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return err
	}

	if n, err := result.RowsAffected(); err == nil {
		log.Debug("shifted future windows by one day",
			slog.String("item_id", itemID.String()),
			slog.Int64("count", n))
	}
	return nil
}

// DeleteByItem implements store.WindowStore.DeleteByItem
func (s *PostgresWindowStore) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM review_windows WHERE item_id = $1`

	if _, err := s.db.ExecContext(ctx, query, itemID); err != nil {
		log.Error("failed to delete windows for item",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return err
	}

	return nil
}

// queryWindows runs a SELECT returning window rows and scans them.
func (s *PostgresWindowStore) queryWindows(ctx context.Context, query string, args ...any) ([]*domain.ReviewWindow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query review windows", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	windows := []*domain.ReviewWindow{}
	for rows.Next() {
		var w domain.ReviewWindow
		if err := rows.Scan(&w.ID, &w.ItemID, &w.Start, &w.End); err != nil {
			log.Error("failed to scan window row", slog.String("error", err.Error()))
			return nil, err
		}
		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return windows, nil
}
