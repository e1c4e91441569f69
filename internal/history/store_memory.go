package history

import (
	"context"
	"sync"
	"time"

	"kontra/pkg/domain"
	"kontra/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	entries   map[domain.UserID][]Entry
	favorites map[domain.UserID][]Favorite
	now       func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries:   make(map[domain.UserID][]Entry),
		favorites: make(map[domain.UserID][]Favorite),
		now:       time.Now,
	}
}

func (s *InMemoryStore) Add(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.UserID] = append(s.entries[e.UserID], e)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, userID domain.UserID, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.entries[userID]
	// Newest first.
	out := make([]Entry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *InMemoryStore) UserStats(_ context.Context, userID domain.UserID) (UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := UserStats{}
	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, e := range s.entries[userID] {
		stats.TotalChecks++
		if !e.CheckedAt.UTC().Before(today) {
			stats.TodayChecks++
		}
	}
	return stats, nil
}

func (s *InMemoryStore) GlobalStats(_ context.Context) (GlobalStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := GlobalStats{}
	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, entries := range s.entries {
		for _, e := range entries {
			stats.TotalChecks++
			if !e.CheckedAt.UTC().Before(today) {
				stats.TodayChecks++
			}
		}
	}
	return stats, nil
}

func (s *InMemoryStore) AddFavorite(_ context.Context, f Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.favorites[f.UserID] {
		if existing.TaxID == f.TaxID {
			return sentinel.ErrConflict
		}
	}
	s.favorites[f.UserID] = append(s.favorites[f.UserID], f)
	return nil
}

func (s *InMemoryStore) RemoveFavorite(_ context.Context, userID domain.UserID, taxID domain.TaxID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.favorites[userID]
	for i, f := range list {
		if f.TaxID == taxID {
			s.favorites[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) ListFavorites(_ context.Context, userID domain.UserID) ([]Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Favorite{}, s.favorites[userID]...), nil
}

func (s *InMemoryStore) IsFavorite(_ context.Context, userID domain.UserID, taxID domain.TaxID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.favorites[userID] {
		if f.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}
