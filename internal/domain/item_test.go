package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewItem(t *testing.T) {
	ownerID := uuid.New()

	item, err := NewItem(ownerID, "bonjour", "hello")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if item.OwnerID != ownerID {
		t.Errorf("Expected owner ID %s, got %s", ownerID, item.OwnerID)
	}

	if item.MainText != "bonjour" {
		t.Errorf("Expected main text %q, got %q", "bonjour", item.MainText)
	}

	if item.SubText != "hello" {
		t.Errorf("Expected sub text %q, got %q", "hello", item.SubText)
	}

	if !item.IsRecurring {
		t.Error("Expected new items to be recurring")
	}

	if item.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Sub text is optional
	item, err = NewItem(ownerID, "bonjour", "")
	if err != nil {
		t.Fatalf("Expected no error for empty sub text, got %v", err)
	}
	if item.SubText != "" {
		t.Errorf("Expected empty sub text, got %q", item.SubText)
	}

	// Main text is required
	if _, err = NewItem(ownerID, "", "hello"); err != ErrItemMainTextEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemMainTextEmpty, err)
	}

	if _, err = NewItem(ownerID, "   ", "hello"); err != ErrItemMainTextEmpty {
		t.Errorf("Expected error %v for whitespace main text, got %v", ErrItemMainTextEmpty, err)
	}

	// Owner is required
	if _, err = NewItem(uuid.Nil, "bonjour", "hello"); err != ErrItemOwnerIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemOwnerIDEmpty, err)
	}
}

func TestItemValidate(t *testing.T) {
	validItem := Item{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		MainText: "bonjour",
	}

	if err := validItem.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidID := validItem
	invalidID.ID = uuid.Nil
	if err := invalidID.Validate(); err != ErrItemIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemIDEmpty, err)
	}

	invalidOwner := validItem
	invalidOwner.OwnerID = uuid.Nil
	if err := invalidOwner.Validate(); err != ErrItemOwnerIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemOwnerIDEmpty, err)
	}
}
