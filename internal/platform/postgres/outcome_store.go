package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/platform/logger"
	"github.com/laev/remem-api/internal/store"
)

// PostgresOutcomeStore implements the store.OutcomeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOutcomeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOutcomeStore creates a new PostgreSQL implementation of the
// OutcomeStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresOutcomeStore(db store.DBTX, logger *slog.Logger) *PostgresOutcomeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOutcomeStore{
		db:     db,
		logger: logger.With(slog.String("component", "outcome_store")),
	}
}

// Ensure PostgresOutcomeStore implements store.OutcomeStore interface
var _ store.OutcomeStore = (*PostgresOutcomeStore)(nil)

// WithTx implements store.OutcomeStore.WithTx
func (s *PostgresOutcomeStore) WithTx(tx *sql.Tx) store.OutcomeStore {
	return &PostgresOutcomeStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.OutcomeStore.Append
// The ledger is append-only; there is no update path.
// Returns store.ErrInvalidEntity if the item doesn't exist (foreign key violation).
func (s *PostgresOutcomeStore) Append(ctx context.Context, rec *domain.OutcomeRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rec.Validate(); err != nil {
		log.Warn("outcome validation failed during append",
			slog.String("error", err.Error()),
			slog.String("record_id", rec.ID.String()))
		return err
	}

	query := `
		INSERT INTO outcome_records (id, item_id, was_memorized, recorded_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.ItemID, rec.WasMemorized, rec.RecordedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during outcome append",
				slog.String("error", err.Error()),
				slog.String("item_id", rec.ItemID.String()))
			return fmt.Errorf("%w: item with ID %s not found",
				store.ErrInvalidEntity, rec.ItemID)
		}

		log.Error("failed to append outcome record",
			slog.String("error", err.Error()),
			slog.String("record_id", rec.ID.String()))
		return err
	}

	log.Info("outcome recorded",
		slog.String("item_id", rec.ItemID.String()),
		slog.Bool("was_memorized", rec.WasMemorized))
	return nil
}

// ListByItem implements store.OutcomeStore.ListByItem
func (s *PostgresOutcomeStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.OutcomeRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, item_id, was_memorized, recorded_at
		FROM outcome_records
		WHERE item_id = $1
		ORDER BY recorded_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, itemID)
	if err != nil {
		log.Error("failed to query outcome records",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.OutcomeRecord{}
	for rows.Next() {
		var rec domain.OutcomeRecord
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.WasMemorized, &rec.RecordedAt); err != nil {
			log.Error("failed to scan outcome row", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}

// CountsForItem implements store.OutcomeStore.CountsForItem
func (s *PostgresOutcomeStore) CountsForItem(ctx context.Context, itemID uuid.UUID) (store.OutcomeCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE was_memorized),
			COUNT(*) FILTER (WHERE NOT was_memorized)
		FROM outcome_records
		WHERE item_id = $1
	`

	var counts store.OutcomeCounts
	err := s.db.QueryRowContext(ctx, query, itemID).Scan(&counts.Success, &counts.Fail)
	if err != nil {
		log.Error("failed to count outcome records",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return store.OutcomeCounts{}, err
	}

	return counts, nil
}

// DeleteByItem implements store.OutcomeStore.DeleteByItem
func (s *PostgresOutcomeStore) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM outcome_records WHERE item_id = $1`

	if _, err := s.db.ExecContext(ctx, query, itemID); err != nil {
		log.Error("failed to delete outcome records for item",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return err
	}

	return nil
}
