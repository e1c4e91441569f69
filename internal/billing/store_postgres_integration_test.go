//go:build integration

package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontra/internal/platform/postgres"
	"kontra/pkg/platform/sentinel"
	"kontra/pkg/testutil/containers"
)

func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	db, err := postgres.Connect(ctx, containers.StartPostgres(t))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	return NewPostgresStore(db)
}

func TestPostgresStore_SaveAndGet(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	p := Payment{
		ID:              "pay-1",
		UserID:          1,
		Tariff:          "month",
		Amount:          "499.00",
		Status:          StatusPending,
		ConfirmationURL: "https://pay.example/confirm",
	}
	require.NoError(t, store.Save(ctx, p))

	got, err := store.Get(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, p.Tariff, got.Tariff)
	assert.Equal(t, StatusPending, got.Status)
	assert.False(t, got.Applied)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_UpdateStatus(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Payment{ID: "pay-2", UserID: 1, Tariff: "week", Amount: "199.00", Status: StatusPending}))
	require.NoError(t, store.UpdateStatus(ctx, "pay-2", StatusSucceeded))

	got, err := store.Get(ctx, "pay-2")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)

	assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", StatusCanceled), sentinel.ErrNotFound)
}

func TestPostgresStore_MarkApplied_ExactlyOnce(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Payment{ID: "pay-3", UserID: 1, Tariff: "month", Amount: "499.00", Status: StatusSucceeded}))

	won, err := store.MarkApplied(ctx, "pay-3")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.MarkApplied(ctx, "pay-3")
	require.NoError(t, err)
	assert.False(t, won)

	_, err = store.MarkApplied(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_ListByUser(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Payment{ID: "pay-4", UserID: 1, Tariff: "week", Amount: "199.00", Status: StatusPending}))
	require.NoError(t, store.Save(ctx, Payment{ID: "pay-5", UserID: 1, Tariff: "month", Amount: "499.00", Status: StatusPending}))
	require.NoError(t, store.Save(ctx, Payment{ID: "pay-6", UserID: 2, Tariff: "year", Amount: "3499.00", Status: StatusPending}))

	payments, err := store.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
