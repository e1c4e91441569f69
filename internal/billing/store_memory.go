package billing

import (
	"context"
	"sync"
	"time"

	"kontra/pkg/domain"
	"kontra/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.Mutex
	payments map[string]Payment
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		payments: make(map[string]Payment),
		now:      time.Now,
	}
}

func (s *InMemoryStore) Save(_ context.Context, p Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.payments[p.ID] = p
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return Payment{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = s.now().UTC()
	s.payments[id] = p
	return nil
}

func (s *InMemoryStore) MarkApplied(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if p.Applied {
		return false, nil
	}
	p.Applied = true
	p.UpdatedAt = s.now().UTC()
	s.payments[id] = p
	return true, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID domain.UserID) ([]Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
