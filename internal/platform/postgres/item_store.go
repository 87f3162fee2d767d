package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/platform/logger"
	"github.com/laev/remem-api/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ItemStore.Create
// It saves a new item to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner doesn't exist (foreign key violation).
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_items (id, owner_id, main_text, sub_text, is_recurring, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.OwnerID,
		item.MainText,
		item.SubText,
		item.IsRecurring,
		item.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during item creation",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()),
				slog.String("owner_id", item.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, item.OwnerID)
		}

		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	log.Info("item created successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", item.OwnerID.String()))
	return nil
}

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, main_text, sub_text, is_recurring, created_at
		FROM review_items
		WHERE id = $1
	`

	var item domain.Item
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.OwnerID,
		&item.MainText,
		&item.SubText,
		&item.IsRecurring,
		&item.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}

	return &item, nil
}

// ListByOwner implements store.ItemStore.ListByOwner
// Returns an empty slice if the owner has no items.
func (s *PostgresItemStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Item, error) {
	query := `
		SELECT id, owner_id, main_text, sub_text, is_recurring, created_at
		FROM review_items
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	return s.queryItems(ctx, query, ownerID)
}

// ListDueAt implements store.ItemStore.ListDueAt
// It joins against review_windows to find items with a window containing at.
func (s *PostgresItemStore) ListDueAt(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Item, error) {
	query := `
		SELECT DISTINCT i.id, i.owner_id, i.main_text, i.sub_text, i.is_recurring, i.created_at
		FROM review_items i
		JOIN review_windows w ON w.item_id = i.id
		WHERE i.owner_id = $1 AND w.start_at <= $2 AND $2 < w.end_at
		ORDER BY i.created_at, i.id
	`

	return s.queryItems(ctx, query, ownerID, at)
}

// Delete implements store.ItemStore.Delete
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM review_items WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("item not found for delete", slog.String("item_id", id.String()))
		return store.ErrItemNotFound
	}

	log.Info("item deleted successfully", slog.String("item_id", id.String()))
	return nil
}

// queryItems runs a SELECT returning item rows and scans them.
func (s *PostgresItemStore) queryItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query items", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.Item{}
	for rows.Next() {
		var item domain.Item
		err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.MainText,
			&item.SubText,
			&item.IsRecurring,
			&item.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan item row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return items, nil
}
