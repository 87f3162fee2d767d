package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewWindow validation errors
var (
	// ErrWindowIDEmpty is returned when a window ID is empty or nil.
	ErrWindowIDEmpty = errors.New("review window ID cannot be empty")

	// ErrWindowItemIDEmpty is returned when a window's item ID is empty or nil.
	ErrWindowItemIDEmpty = errors.New("review window item ID cannot be empty")

	// ErrWindowInverted is returned when a window's end is not after its start.
	ErrWindowInverted = errors.New("review window end must be after start")
)

// ReviewWindow is a half-open interval [Start, End) during which its item
// is considered due for review. Windows belonging to one item never overlap
// and are strictly increasing in Start.
type ReviewWindow struct {
	ID     uuid.UUID `json:"id"`
	ItemID uuid.UUID `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// NewReviewWindow creates a window for the given item covering [start, end).
// Returns an error if validation fails.
func NewReviewWindow(itemID uuid.UUID, start, end time.Time) (*ReviewWindow, error) {
	w := &ReviewWindow{
		ID:     uuid.New(),
		ItemID: itemID,
		Start:  start.UTC(),
		End:    end.UTC(),
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	return w, nil
}

// Validate checks if the ReviewWindow has valid data.
func (w *ReviewWindow) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWindowIDEmpty
	}

	if w.ItemID == uuid.Nil {
		return ErrWindowItemIDEmpty
	}

	if !w.End.After(w.Start) {
		return ErrWindowInverted
	}

	return nil
}

// Contains reports whether t falls inside the half-open interval [Start, End).
func (w *ReviewWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Elapsed reports whether the window has fully passed at time now,
// i.e. now is at or past End.
func (w *ReviewWindow) Elapsed(now time.Time) bool {
	return !now.Before(w.End)
}
