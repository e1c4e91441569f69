package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
)

type stubProvider struct {
	created  []Payment
	statuses map[string]Status
}

func newStubProvider() *stubProvider {
	return &stubProvider{statuses: make(map[string]Status)}
}

func (p *stubProvider) CreatePayment(_ context.Context, userID domain.UserID, tariff Tariff) (Payment, error) {
	payment := Payment{
		ID:              "pay-" + tariff.Code,
		UserID:          userID,
		Tariff:          tariff.Code,
		Amount:          tariff.Amount,
		Status:          StatusPending,
		ConfirmationURL: "https://pay.example/confirm",
	}
	p.created = append(p.created, payment)
	p.statuses[payment.ID] = StatusPending
	return payment, nil
}

func (p *stubProvider) GetPayment(_ context.Context, paymentID string) (Payment, error) {
	return Payment{ID: paymentID, Status: p.statuses[paymentID]}, nil
}

type stubActivator struct {
	calls []time.Duration
}

func (a *stubActivator) ActivatePremium(_ context.Context, _ domain.UserID, d time.Duration) (time.Time, error) {
	a.calls = append(a.calls, d)
	return time.Now().Add(d), nil
}

func TestStart(t *testing.T) {
	provider := newStubProvider()
	svc := NewService(provider, NewInMemoryStore(), &stubActivator{})

	payment, err := svc.Start(context.Background(), domain.UserID(1), "month")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, payment.Status)
	assert.Equal(t, "499.00", payment.Amount)
	assert.NotEmpty(t, payment.ConfirmationURL)

	stored, err := svc.store.Get(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, stored.ID)
}

func TestStart_UnknownTariff(t *testing.T) {
	svc := NewService(newStubProvider(), NewInMemoryStore(), &stubActivator{})

	_, err := svc.Start(context.Background(), domain.UserID(1), "forever")
	assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
}

func TestRefresh_AppliesPremiumExactlyOnce(t *testing.T) {
	provider := newStubProvider()
	activator := &stubActivator{}
	svc := NewService(provider, NewInMemoryStore(), activator)
	ctx := context.Background()
	user := domain.UserID(1)

	payment, err := svc.Start(ctx, user, "week")
	require.NoError(t, err)

	provider.statuses[payment.ID] = StatusSucceeded

	for i := 0; i < 3; i++ {
		refreshed, err := svc.Refresh(ctx, user, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, refreshed.Status)
		assert.True(t, refreshed.Applied)
	}

	require.Len(t, activator.calls, 1, "premium granted exactly once")
	assert.Equal(t, 7*24*time.Hour, activator.calls[0])
}

func TestRefresh_PendingGrantsNothing(t *testing.T) {
	provider := newStubProvider()
	activator := &stubActivator{}
	svc := NewService(provider, NewInMemoryStore(), activator)
	ctx := context.Background()
	user := domain.UserID(1)

	payment, err := svc.Start(ctx, user, "month")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, user, payment.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, refreshed.Status)
	assert.False(t, refreshed.Applied)
	assert.Empty(t, activator.calls)
}

func TestRefresh_CanceledGrantsNothing(t *testing.T) {
	provider := newStubProvider()
	activator := &stubActivator{}
	svc := NewService(provider, NewInMemoryStore(), activator)
	ctx := context.Background()
	user := domain.UserID(1)

	payment, err := svc.Start(ctx, user, "month")
	require.NoError(t, err)
	provider.statuses[payment.ID] = StatusCanceled

	refreshed, err := svc.Refresh(ctx, user, payment.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCanceled, refreshed.Status)
	assert.Empty(t, activator.calls)
}

func TestRefresh_UnknownPayment(t *testing.T) {
	svc := NewService(newStubProvider(), NewInMemoryStore(), &stubActivator{})

	_, err := svc.Refresh(context.Background(), domain.UserID(1), "missing")
	assert.True(t, derrors.HasCode(err, derrors.CodeNotFound))
}

func TestRefresh_ForeignPaymentForbidden(t *testing.T) {
	provider := newStubProvider()
	svc := NewService(provider, NewInMemoryStore(), &stubActivator{})
	ctx := context.Background()

	payment, err := svc.Start(ctx, domain.UserID(1), "month")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, domain.UserID(2), payment.ID)
	assert.True(t, derrors.HasCode(err, derrors.CodeForbidden))
}

func TestTariffByCode(t *testing.T) {
	tariff, ok := TariffByCode("year")
	require.True(t, ok)
	assert.Equal(t, 365, tariff.Days)
	assert.Equal(t, "3499.00", tariff.Amount)

	_, ok = TariffByCode("decade")
	assert.False(t, ok)
}
