package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when an item ID is empty or nil.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemOwnerIDEmpty is returned when an item's owner ID is empty or nil.
	ErrItemOwnerIDEmpty = errors.New("item owner ID cannot be empty")

	// ErrItemMainTextEmpty is returned when an item's main text is blank.
	ErrItemMainTextEmpty = errors.New("item main text cannot be blank")
)

// Item represents a single fact a user wants to memorize through
// recurring review. SubText is an optional secondary text, typically a
// translation or mnemonic.
type Item struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	MainText    string    `json:"main_text"`
	SubText     string    `json:"sub_text,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewItem creates a new Item owned by the given user.
// It generates a new UUID for the item ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewItem(ownerID uuid.UUID, mainText, subText string) (*Item, error) {
	item := &Item{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		MainText:    mainText,
		SubText:     subText,
		IsRecurring: true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.OwnerID == uuid.Nil {
		return ErrItemOwnerIDEmpty
	}

	if strings.TrimSpace(i.MainText) == "" {
		return ErrItemMainTextEmpty
	}

	return nil
}
