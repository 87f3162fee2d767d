package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
)

// WindowStore defines the interface for review window persistence.
//
// Implementations must preserve the per-item invariant that windows never
// overlap and are strictly increasing in start time. The mutating methods
// (ShiftFutureByOneDay, DeleteFuture) keep that invariant because they act
// uniformly on every future window.
type WindowStore interface {
	// Create saves a new review window.
	// Returns validation errors if the window data is invalid, and
	// ErrInvalidEntity if the item does not exist.
	Create(ctx context.Context, window *domain.ReviewWindow) error

	// ListByItem retrieves all windows of an item ordered by start time.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewWindow, error)

	// WindowsContaining retrieves the item's windows whose half-open
	// interval [start, end) contains the instant at.
	WindowsContaining(ctx context.Context, itemID uuid.UUID, at time.Time) ([]*domain.ReviewWindow, error)

	// FutureWindows retrieves the item's windows with start strictly
	// after now, ordered by start time.
	FutureWindows(ctx context.Context, itemID uuid.UUID, now time.Time) ([]*domain.ReviewWindow, error)

	// DeleteFuture removes all of the item's windows with start strictly
	// after now. Past windows are immutable history and are never touched.
	DeleteFuture(ctx context.Context, itemID uuid.UUID, now time.Time) error

	// ShiftFutureByOneDay moves every window of the item with start
	// strictly after now forward by one day (both start and end).
	ShiftFutureByOneDay(ctx context.Context, itemID uuid.UUID, now time.Time) error

	// DeleteByItem removes all windows belonging to the item.
	// Used by the item deletion cascade.
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error

	// WithTx returns a new WindowStore bound to the given transaction.
	WithTx(tx *sql.Tx) WindowStore
}
