package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
)

// ItemStore defines the interface for item persistence.
type ItemStore interface {
	// Create saves a new item to the store.
	// Returns validation errors if the item data is invalid, and
	// ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// ListByOwner retrieves all items owned by the given user in
	// insertion order (created_at, then id).
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Item, error)

	// ListDueAt retrieves the owner's items that have a review window
	// containing the instant at, in insertion order.
	ListDueAt(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Item, error)

	// Delete removes an item from the store by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	//
	// Deletion of the item's review windows and outcome records is the
	// responsibility of the review service, which removes them in the
	// same transaction before deleting the item row.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ItemStore bound to the given transaction.
	// The transaction is created and managed by the caller, typically
	// through RunInTransaction.
	WithTx(tx *sql.Tx) ItemStore
}
