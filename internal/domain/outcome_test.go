package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewOutcomeRecord(t *testing.T) {
	itemID := uuid.New()
	recordedAt := time.Date(2024, 11, 18, 14, 30, 0, 0, time.UTC)

	rec, err := NewOutcomeRecord(itemID, true, recordedAt)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if rec.ItemID != itemID {
		t.Errorf("Expected item ID %s, got %s", itemID, rec.ItemID)
	}

	if !rec.WasMemorized {
		t.Error("Expected WasMemorized to be true")
	}

	if !rec.RecordedAt.Equal(recordedAt) {
		t.Errorf("Expected recorded time %s, got %s", recordedAt, rec.RecordedAt)
	}

	// RecordedAt is normalized to UTC
	est := time.FixedZone("UTC-05:00", -5*3600)
	rec, err = NewOutcomeRecord(itemID, false, recordedAt.In(est))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.RecordedAt.Location() != time.UTC {
		t.Error("Expected recorded time in UTC")
	}
	if rec.WasMemorized {
		t.Error("Expected WasMemorized to be false")
	}

	// Item is required
	if _, err = NewOutcomeRecord(uuid.Nil, true, recordedAt); err != ErrOutcomeItemIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrOutcomeItemIDEmpty, err)
	}

	// Recorded time is required
	if _, err = NewOutcomeRecord(itemID, true, time.Time{}); err != ErrOutcomeTimeZero {
		t.Errorf("Expected error %v, got %v", ErrOutcomeTimeZero, err)
	}
}
