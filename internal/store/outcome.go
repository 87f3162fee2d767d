package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
)

// OutcomeCounts aggregates an item's ledger by recall result.
type OutcomeCounts struct {
	Success int
	Fail    int
}

// OutcomeStore defines the interface for the append-only outcome ledger.
// Records are never updated; the only deletion path is the item cascade.
type OutcomeStore interface {
	// Append inserts a new outcome record unconditionally.
	// Returns validation errors if the record data is invalid, and
	// ErrInvalidEntity if the item does not exist.
	Append(ctx context.Context, rec *domain.OutcomeRecord) error

	// ListByItem retrieves all outcome records of an item ordered by
	// recorded time.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.OutcomeRecord, error)

	// CountsForItem aggregates the item's ledger into success/fail counts.
	CountsForItem(ctx context.Context, itemID uuid.UUID) (OutcomeCounts, error)

	// DeleteByItem removes all outcome records belonging to the item.
	// Used by the item deletion cascade.
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error

	// WithTx returns a new OutcomeStore bound to the given transaction.
	WithTx(tx *sql.Tx) OutcomeStore
}
