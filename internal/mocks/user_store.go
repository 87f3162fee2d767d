package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MemoryUserStore is an in-memory implementation of store.UserStore.
// Passwords are hashed with bcrypt.MinCost to keep tests fast.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[uuid.UUID]*domain.User),
	}
}

// Create implements store.UserStore.Create.
func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	if user.HashedPassword == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	cp := *user
	return &cp, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}
