package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
)

// Service is the quota gate in front of the check pipeline.
type Service struct {
	store      Store
	admins     map[domain.UserID]struct{}
	freeChecks int
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Service)

// WithAdmins marks the given users as admins, who bypass quota entirely.
func WithAdmins(ids []domain.UserID) Option {
	return func(s *Service) {
		for _, id := range ids {
			s.admins[id] = struct{}{}
		}
	}
}

// WithFreeChecks sets the allowance granted to new users.
func WithFreeChecks(n int) Option {
	return func(s *Service) { s.freeChecks = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

const defaultFreeChecks = 3

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		admins:     make(map[domain.UserID]struct{}),
		freeChecks: defaultFreeChecks,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the caller's quota state, creating it on first contact.
func (s *Service) GetOrCreate(ctx context.Context, id domain.UserID) (User, error) {
	return s.store.GetOrCreate(ctx, id, s.freeChecks)
}

// IsAdmin reports whether the user is on the admin allow-list.
func (s *Service) IsAdmin(id domain.UserID) bool {
	_, ok := s.admins[id]
	return ok
}

// TryConsume authorizes one check. Admins and active premium subscribers pass
// without spending anything; everyone else spends one free check atomically.
// A caller with nothing left gets CodeQuotaExceeded.
func (s *Service) TryConsume(ctx context.Context, id domain.UserID) (Grant, error) {
	if s.IsAdmin(id) {
		return GrantAdmin, nil
	}

	user, err := s.store.GetOrCreate(ctx, id, s.freeChecks)
	if err != nil {
		return "", fmt.Errorf("load quota state: %w", err)
	}
	if user.PremiumActive(s.now()) {
		return GrantPremium, nil
	}

	consumed, err := s.store.ConsumeCheck(ctx, id)
	if err != nil {
		return "", fmt.Errorf("consume check: %w", err)
	}
	if !consumed {
		s.logger.InfoContext(ctx, "quota exhausted", slog.Int64("user_id", id.Int64()))
		return "", derrors.New(derrors.CodeQuotaExceeded, "бесплатные проверки закончились, оформите подписку")
	}
	return GrantFreeCheck, nil
}

// ActivatePremium extends the subscription by the given duration, from the
// current expiry when one is still running.
func (s *Service) ActivatePremium(ctx context.Context, id domain.UserID, d time.Duration) (time.Time, error) {
	user, err := s.store.GetOrCreate(ctx, id, s.freeChecks)
	if err != nil {
		return time.Time{}, fmt.Errorf("load quota state: %w", err)
	}

	now := s.now().UTC()
	from := now
	if user.PremiumActive(now) && user.PremiumUntil.After(now) {
		from = user.PremiumUntil
	}
	until := from.Add(d)
	if err := s.store.SetPremium(ctx, id, until); err != nil {
		return time.Time{}, fmt.Errorf("set premium: %w", err)
	}
	s.logger.InfoContext(ctx, "premium activated",
		slog.Int64("user_id", id.Int64()),
		slog.Time("until", until))
	return until, nil
}

// GrantChecks tops up a user's free allowance, for support cases.
func (s *Service) GrantChecks(ctx context.Context, id domain.UserID, n int) error {
	if n <= 0 {
		return derrors.New(derrors.CodeInvalidInput, "check grant must be positive")
	}
	if _, err := s.store.GetOrCreate(ctx, id, s.freeChecks); err != nil {
		return fmt.Errorf("load quota state: %w", err)
	}
	return s.store.AddChecks(ctx, id, n)
}

// CountUsers reports the total user count for the admin stats view.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
