package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/store"
)

// MemoryStore is an in-memory implementation of the item, window, and
// outcome persistence ports sharing one backing dataset, so cross-entity
// queries (items due at an instant) behave like the real database. All
// methods are safe for concurrent use.
//
// The interface views returned by Items, Windows, and Outcomes ignore
// transactions: WithTx returns the same view, and every mutation is applied
// immediately. That matches how the service layer is tested, with runTx
// stubbed to invoke the transaction function directly.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[uuid.UUID]*domain.Item
	windows  map[uuid.UUID]*domain.ReviewWindow
	outcomes []*domain.OutcomeRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:   make(map[uuid.UUID]*domain.Item),
		windows: make(map[uuid.UUID]*domain.ReviewWindow),
	}
}

// Items returns the store.ItemStore view of the dataset.
func (m *MemoryStore) Items() store.ItemStore { return &memoryItemStore{m} }

// Windows returns the store.WindowStore view of the dataset.
func (m *MemoryStore) Windows() store.WindowStore { return &memoryWindowStore{m} }

// Outcomes returns the store.OutcomeStore view of the dataset.
func (m *MemoryStore) Outcomes() store.OutcomeStore { return &memoryOutcomeStore{m} }

// item view

type memoryItemStore struct {
	core *MemoryStore
}

var _ store.ItemStore = (*memoryItemStore)(nil)

func (s *memoryItemStore) WithTx(_ *sql.Tx) store.ItemStore { return s }

func (s *memoryItemStore) Create(_ context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	cp := *item
	s.core.items[item.ID] = &cp
	return nil
}

func (s *memoryItemStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	item, ok := s.core.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}

	cp := *item
	return &cp, nil
}

func (s *memoryItemStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Item, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	return s.core.ownerItemsLocked(ownerID), nil
}

func (s *memoryItemStore) ListDueAt(_ context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Item, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	due := []*domain.Item{}
	for _, item := range s.core.ownerItemsLocked(ownerID) {
		for _, w := range s.core.windows {
			if w.ItemID == item.ID && w.Contains(at) {
				due = append(due, item)
				break
			}
		}
	}
	return due, nil
}

func (s *memoryItemStore) Delete(_ context.Context, id uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	if _, ok := s.core.items[id]; !ok {
		return store.ErrItemNotFound
	}
	delete(s.core.items, id)
	return nil
}

// ownerItemsLocked returns copies of the owner's items in insertion order
// (created_at, then id). Callers must hold at least the read lock.
func (m *MemoryStore) ownerItemsLocked(ownerID uuid.UUID) []*domain.Item {
	items := []*domain.Item{}
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			cp := *item
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

// window view

type memoryWindowStore struct {
	core *MemoryStore
}

var _ store.WindowStore = (*memoryWindowStore)(nil)

func (s *memoryWindowStore) WithTx(_ *sql.Tx) store.WindowStore { return s }

func (s *memoryWindowStore) Create(_ context.Context, window *domain.ReviewWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	if _, ok := s.core.items[window.ItemID]; !ok {
		return store.ErrInvalidEntity
	}

	cp := *window
	s.core.windows[window.ID] = &cp
	return nil
}

func (s *memoryWindowStore) ListByItem(_ context.Context, itemID uuid.UUID) ([]*domain.ReviewWindow, error) {
	return s.filter(func(w *domain.ReviewWindow) bool {
		return w.ItemID == itemID
	}), nil
}

func (s *memoryWindowStore) WindowsContaining(_ context.Context, itemID uuid.UUID, at time.Time) ([]*domain.ReviewWindow, error) {
	return s.filter(func(w *domain.ReviewWindow) bool {
		return w.ItemID == itemID && w.Contains(at)
	}), nil
}

func (s *memoryWindowStore) FutureWindows(_ context.Context, itemID uuid.UUID, now time.Time) ([]*domain.ReviewWindow, error) {
	return s.filter(func(w *domain.ReviewWindow) bool {
		return w.ItemID == itemID && w.Start.After(now)
	}), nil
}

func (s *memoryWindowStore) DeleteFuture(_ context.Context, itemID uuid.UUID, now time.Time) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	for id, w := range s.core.windows {
		if w.ItemID == itemID && w.Start.After(now) {
			delete(s.core.windows, id)
		}
	}
	return nil
}

func (s *memoryWindowStore) ShiftFutureByOneDay(_ context.Context, itemID uuid.UUID, now time.Time) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	for _, w := range s.core.windows {
		if w.ItemID == itemID && w.Start.After(now) {
			w.Start = w.Start.Add(24 * time.Hour)
			w.End = w.End.Add(24 * time.Hour)
		}
	}
	return nil
}

func (s *memoryWindowStore) DeleteByItem(_ context.Context, itemID uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	for id, w := range s.core.windows {
		if w.ItemID == itemID {
			delete(s.core.windows, id)
		}
	}
	return nil
}

// filter returns copies of the windows matching keep, ordered by start.
func (s *memoryWindowStore) filter(keep func(*domain.ReviewWindow) bool) []*domain.ReviewWindow {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	windows := []*domain.ReviewWindow{}
	for _, w := range s.core.windows {
		if keep(w) {
			cp := *w
			windows = append(windows, &cp)
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// outcome view

type memoryOutcomeStore struct {
	core *MemoryStore
}

var _ store.OutcomeStore = (*memoryOutcomeStore)(nil)

func (s *memoryOutcomeStore) WithTx(_ *sql.Tx) store.OutcomeStore { return s }

func (s *memoryOutcomeStore) Append(_ context.Context, rec *domain.OutcomeRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	if _, ok := s.core.items[rec.ItemID]; !ok {
		return store.ErrInvalidEntity
	}

	cp := *rec
	s.core.outcomes = append(s.core.outcomes, &cp)
	return nil
}

func (s *memoryOutcomeStore) ListByItem(_ context.Context, itemID uuid.UUID) ([]*domain.OutcomeRecord, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	records := []*domain.OutcomeRecord{}
	for _, rec := range s.core.outcomes {
		if rec.ItemID == itemID {
			cp := *rec
			records = append(records, &cp)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	return records, nil
}

func (s *memoryOutcomeStore) CountsForItem(_ context.Context, itemID uuid.UUID) (store.OutcomeCounts, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()

	var counts store.OutcomeCounts
	for _, rec := range s.core.outcomes {
		if rec.ItemID != itemID {
			continue
		}
		if rec.WasMemorized {
			counts.Success++
		} else {
			counts.Fail++
		}
	}
	return counts, nil
}

func (s *memoryOutcomeStore) DeleteByItem(_ context.Context, itemID uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	kept := s.core.outcomes[:0]
	for _, rec := range s.core.outcomes {
		if rec.ItemID != itemID {
			kept = append(kept, rec)
		}
	}
	s.core.outcomes = kept
	return nil
}
