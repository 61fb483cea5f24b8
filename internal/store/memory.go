// Package store holds the credential store implementations.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

var _ core.UserStore = (*InMemoryUserStore)(nil)

// InMemoryUserStore keeps users in a map keyed by username. The write lock
// around Create is what enforces username uniqueness under concurrent
// registrations.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]core.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[string]core.User),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user core.User) (*core.User, error) {
	key := normalize(user.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return nil, core.ErrDuplicateUsername
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	s.users[key] = user
	return &user, nil
}

func (s *InMemoryUserStore) FindByUsername(_ context.Context, username string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[normalize(username)]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return &user, nil
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
