package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"kontra/internal/platform/postgres"
	"kontra/pkg/domain"
	"kontra/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *postgres.DB
}

func NewPostgresStore(db *postgres.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p Payment) error {
	const q = `
		INSERT INTO payments (id, user_id, tariff, amount, status, confirmation_url, applied, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = now()`

	_, err := s.db.Pool.Exec(ctx, q,
		p.ID, p.UserID.Int64(), p.Tariff, p.Amount, string(p.Status), p.ConfirmationURL, p.Applied)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Payment, error) {
	const q = `
		SELECT id, user_id, tariff, amount, status, confirmation_url, applied, created_at, updated_at
		FROM payments WHERE id = $1`

	var p Payment
	err := s.db.Pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.UserID, &p.Tariff, &p.Amount, &p.Status, &p.ConfirmationURL,
		&p.Applied, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	const q = `UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Pool.Exec(ctx, q, id, string(status))
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// MarkApplied relies on the conditional UPDATE so only one caller can ever
// apply a payment.
func (s *PostgresStore) MarkApplied(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE payments SET applied = TRUE, updated_at = now() WHERE id = $1 AND NOT applied`

	tag, err := s.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("mark payment applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, lookupErr := s.exists(ctx, id)
		if lookupErr != nil {
			return false, lookupErr
		}
		if !exists {
			return false, sentinel.ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID) ([]Payment, error) {
	const q = `
		SELECT id, user_id, tariff, amount, status, confirmation_url, applied, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Pool.Query(ctx, q, userID.Int64())
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Tariff, &p.Amount, &p.Status, &p.ConfirmationURL,
			&p.Applied, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *PostgresStore) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup payment: %w", err)
	}
	return exists, nil
}
