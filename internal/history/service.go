package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kontra/internal/audit"
	"kontra/internal/risk"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
	"kontra/pkg/platform/sentinel"
)

// Service records completed checks and manages favorites.
type Service struct {
	store     Store
	publisher *audit.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one completed check. Failures are reported but the caller
// treats them as non-fatal: the user already has the report.
func (s *Service) Record(ctx context.Context, userID domain.UserID, taxID domain.TaxID, name string, tier risk.Tier) error {
	entry := Entry{
		UserID:      userID,
		TaxID:       taxID,
		CompanyName: name,
		Tier:        tier,
		CheckedAt:   s.now().UTC(),
	}
	if err := s.store.Add(ctx, entry); err != nil {
		return fmt.Errorf("record check: %w", err)
	}
	return nil
}

// List returns the newest entries first, capped at the default page size when
// limit is not positive.
func (s *Service) List(ctx context.Context, userID domain.UserID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.List(ctx, userID, limit)
}

func (s *Service) UserStats(ctx context.Context, userID domain.UserID) (UserStats, error) {
	return s.store.UserStats(ctx, userID)
}

func (s *Service) GlobalStats(ctx context.Context) (GlobalStats, error) {
	return s.store.GlobalStats(ctx)
}

// AddFavorite pins a company. Adding a company twice is not an error for the
// caller; the list simply stays as it was.
func (s *Service) AddFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID, name string) error {
	f := Favorite{
		UserID:      userID,
		TaxID:       taxID,
		CompanyName: name,
		AddedAt:     s.now().UTC(),
	}
	err := s.store.AddFavorite(ctx, f)
	if errors.Is(err, sentinel.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	if s.publisher != nil {
		s.publisher.Emit(ctx, audit.Event{UserID: userID, Action: audit.ActionFavoriteAdded, TaxID: taxID})
	}
	return nil
}

func (s *Service) RemoveFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) error {
	err := s.store.RemoveFavorite(ctx, userID, taxID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return derrors.New(derrors.CodeNotFound, "company is not in favorites")
	}
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if s.publisher != nil {
		s.publisher.Emit(ctx, audit.Event{UserID: userID, Action: audit.ActionFavoriteRemoved, TaxID: taxID})
	}
	return nil
}

func (s *Service) ListFavorites(ctx context.Context, userID domain.UserID) ([]Favorite, error) {
	return s.store.ListFavorites(ctx, userID)
}

func (s *Service) IsFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) (bool, error) {
	return s.store.IsFavorite(ctx, userID, taxID)
}
