package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutcomeRecord validation errors
var (
	// ErrOutcomeIDEmpty is returned when an outcome record ID is empty or nil.
	ErrOutcomeIDEmpty = errors.New("outcome record ID cannot be empty")

	// ErrOutcomeItemIDEmpty is returned when an outcome's item ID is empty or nil.
	ErrOutcomeItemIDEmpty = errors.New("outcome record item ID cannot be empty")

	// ErrOutcomeTimeZero is returned when an outcome has no recorded time.
	ErrOutcomeTimeZero = errors.New("outcome record time cannot be zero")
)

// OutcomeRecord is one entry in the append-only ledger of recall results
// for an item. Records are never mutated; they are removed only when the
// owning item is deleted.
type OutcomeRecord struct {
	ID           uuid.UUID `json:"id"`
	ItemID       uuid.UUID `json:"item_id"`
	WasMemorized bool      `json:"was_memorized"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// NewOutcomeRecord creates a ledger entry for the given item.
// Returns an error if validation fails.
func NewOutcomeRecord(itemID uuid.UUID, wasMemorized bool, recordedAt time.Time) (*OutcomeRecord, error) {
	rec := &OutcomeRecord{
		ID:           uuid.New(),
		ItemID:       itemID,
		WasMemorized: wasMemorized,
		RecordedAt:   recordedAt.UTC(),
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the OutcomeRecord has valid data.
func (r *OutcomeRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrOutcomeIDEmpty
	}

	if r.ItemID == uuid.Nil {
		return ErrOutcomeItemIDEmpty
	}

	if r.RecordedAt.IsZero() {
		return ErrOutcomeTimeZero
	}

	return nil
}
