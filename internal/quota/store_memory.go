package quota

import (
	"context"
	"sync"
	"time"

	"kontra/pkg/domain"
	"kontra/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu    sync.Mutex
	users map[domain.UserID]User
	now   func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[domain.UserID]User),
		now:   time.Now,
	}
}

func (s *InMemoryStore) GetOrCreate(_ context.Context, id domain.UserID, freeChecks int) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	u := User{ID: id, ChecksLeft: freeChecks, CreatedAt: s.now().UTC()}
	s.users[id] = u
	return u, nil
}

func (s *InMemoryStore) ConsumeCheck(_ context.Context, id domain.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if u.ChecksLeft <= 0 {
		return false, nil
	}
	u.ChecksLeft--
	s.users[id] = u
	return true, nil
}

func (s *InMemoryStore) SetPremium(_ context.Context, id domain.UserID, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.IsPremium = true
	u.PremiumUntil = until
	s.users[id] = u
	return nil
}

func (s *InMemoryStore) AddChecks(_ context.Context, id domain.UserID, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.ChecksLeft += n
	s.users[id] = u
	return nil
}

func (s *InMemoryStore) CountUsers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}
