// Package review implements the review-scheduling engine: item lifecycle,
// outcome recording with the delay-on-fail policy, and the query views
// derived from the window schedule plus the outcome ledger.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
)

// ItemView is an item enriched with the derived review state the "all items"
// query exposes: ledger counts, the dates of upcoming reviews, and the
// per-outcome partition of the ledger history.
type ItemView struct {
	Item *domain.Item

	SuccessCount int
	FailCount    int

	// UpcomingReviewDates holds the start instants of the item's future
	// windows, in chronological order.
	UpcomingReviewDates []time.Time

	// MemorizedDates and NotMemorizedDates partition the ledger history
	// by recall result, ordered by recorded time.
	MemorizedDates    []time.Time
	NotMemorizedDates []time.Time

	// SkippedDates holds the start instants of windows that fully elapsed
	// with no outcome recorded inside them. Derived, never stored.
	SkippedDates []time.Time
}

// ReviewService provides the review-scheduling operations exposed to the
// HTTP layer. All mutations act on exactly one item and are atomic with
// respect to other mutations on the same item.
type ReviewService interface {
	// CreateItem validates and persists a new item together with its
	// initial review window, which covers the caller's current local day
	// per the supplied UTC offset.
	//
	// Returns schedule.ErrInvalidOffset for a malformed offset and domain
	// validation errors for bad item data.
	CreateItem(ctx context.Context, ownerID uuid.UUID, mainText, subText, offset string) (*domain.Item, error)

	// ListDueAt returns the owner's items that have a review window
	// containing the instant at, in insertion order.
	ListDueAt(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Item, error)

	// ListAll returns all of the owner's items with their derived review
	// state, in insertion order.
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]*ItemView, error)

	// RecordOutcome appends a recall result to the item's ledger. A failed
	// recall additionally shifts every future window of the item forward
	// by one day; a successful recall leaves the schedule untouched.
	// Append and shift happen in a single transaction inside a per-item
	// critical section.
	//
	// Returns ErrItemNotFound when the item does not exist,
	// ErrItemNotOwned when it belongs to another user,
	// schedule.ErrInvalidOffset for a malformed offset,
	// ErrConcurrencyConflict when the per-item lock cannot be acquired
	// in time (the caller should retry), and ErrOutcomeAlreadyRecorded
	// when strict duplicate rejection is enabled and the current window
	// already has an outcome.
	RecordOutcome(ctx context.Context, ownerID, itemID uuid.UUID, wasMemorized bool, offset string) error

	// DeleteItem removes the item together with all of its review windows
	// and outcome records in a single transaction.
	//
	// Returns ErrItemNotFound when the item does not exist and
	// ErrItemNotOwned when it belongs to another user.
	DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error
}

// Common error types for ReviewService
var (
	// ErrItemNotFound indicates that the item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemNotOwned indicates that the item belongs to another user.
	ErrItemNotOwned = errors.New("unauthorized access: item not owned by user")

	// ErrConcurrencyConflict indicates the per-item lock could not be
	// acquired within the configured timeout. Callers should retry once
	// with backoff.
	ErrConcurrencyConflict = errors.New("concurrent modification of item, retry")

	// ErrOutcomeAlreadyRecorded indicates an outcome already exists inside
	// the item's current window. Only returned when strict duplicate
	// rejection is enabled.
	ErrOutcomeAlreadyRecorded = errors.New("outcome already recorded for current window")
)

// ServiceError wraps errors from the review service with operation context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_item", "record_outcome")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
