package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kontra/internal/audit"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
	"kontra/pkg/platform/sentinel"
)

// PaymentProvider is the provider-facing slice of Client the service needs.
type PaymentProvider interface {
	CreatePayment(ctx context.Context, userID domain.UserID, tariff Tariff) (Payment, error)
	GetPayment(ctx context.Context, paymentID string) (Payment, error)
}

// PremiumActivator grants subscription time on a successful payment.
type PremiumActivator interface {
	ActivatePremium(ctx context.Context, id domain.UserID, d time.Duration) (time.Time, error)
}

// Service owns the payment lifecycle: start, poll, apply.
type Service struct {
	provider  PaymentProvider
	store     Store
	quota     PremiumActivator
	publisher *audit.Publisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func NewService(provider PaymentProvider, store Store, quota PremiumActivator, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		store:    store,
		quota:    quota,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a payment for the tariff and persists the pending record.
// The caller redirects the user to the returned confirmation URL.
func (s *Service) Start(ctx context.Context, userID domain.UserID, tariffCode string) (Payment, error) {
	tariff, ok := TariffByCode(tariffCode)
	if !ok {
		return Payment{}, derrors.New(derrors.CodeInvalidInput, "unknown tariff: "+tariffCode)
	}

	payment, err := s.provider.CreatePayment(ctx, userID, tariff)
	if err != nil {
		return Payment{}, err
	}
	if err := s.store.Save(ctx, payment); err != nil {
		return Payment{}, fmt.Errorf("persist payment: %w", err)
	}

	s.logger.InfoContext(ctx, "payment started",
		slog.String("payment_id", payment.ID),
		slog.Int64("user_id", userID.Int64()),
		slog.String("tariff", tariff.Code))
	if s.publisher != nil {
		s.publisher.Emit(ctx, audit.Event{UserID: userID, Action: audit.ActionPaymentStarted, Detail: tariff.Code})
	}
	return payment, nil
}

// Refresh polls the provider for the payment's current status and, on the
// first observation of success, extends the user's premium subscription.
// Applying is guarded by the store, so polling twice grants once.
func (s *Service) Refresh(ctx context.Context, userID domain.UserID, paymentID string) (Payment, error) {
	local, err := s.store.Get(ctx, paymentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Payment{}, derrors.New(derrors.CodeNotFound, "payment not found")
	}
	if err != nil {
		return Payment{}, fmt.Errorf("load payment: %w", err)
	}
	if local.UserID != userID {
		return Payment{}, derrors.New(derrors.CodeForbidden, "payment belongs to another user")
	}

	remote, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if remote.Status != local.Status {
		if err := s.store.UpdateStatus(ctx, paymentID, remote.Status); err != nil {
			return Payment{}, fmt.Errorf("update payment status: %w", err)
		}
		local.Status = remote.Status
	}

	if local.Status == StatusSucceeded {
		if err := s.apply(ctx, local); err != nil {
			return Payment{}, err
		}
		local.Applied = true
	}
	return local, nil
}

func (s *Service) apply(ctx context.Context, p Payment) error {
	won, err := s.store.MarkApplied(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("mark payment applied: %w", err)
	}
	if !won {
		return nil
	}

	tariff, ok := TariffByCode(p.Tariff)
	if !ok {
		return derrors.New(derrors.CodeInternal, "payment references unknown tariff: "+p.Tariff)
	}
	until, err := s.quota.ActivatePremium(ctx, p.UserID, time.Duration(tariff.Days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("activate premium: %w", err)
	}

	s.logger.InfoContext(ctx, "payment applied",
		slog.String("payment_id", p.ID),
		slog.Int64("user_id", p.UserID.Int64()),
		slog.Time("premium_until", until))
	if s.publisher != nil {
		s.publisher.Emit(ctx, audit.Event{UserID: p.UserID, Action: audit.ActionPaymentApplied, Detail: p.Tariff})
	}
	return nil
}

// ListByUser returns the user's payment records.
func (s *Service) ListByUser(ctx context.Context, userID domain.UserID) ([]Payment, error) {
	return s.store.ListByUser(ctx, userID)
}
