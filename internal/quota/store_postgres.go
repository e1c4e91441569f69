package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

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

func (s *PostgresStore) GetOrCreate(ctx context.Context, id domain.UserID, freeChecks int) (User, error) {
	const q = `
		INSERT INTO users (id, checks_left, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET id = users.id
		RETURNING id, checks_left, is_premium, premium_until, created_at`

	var (
		u     User
		until *time.Time
	)
	err := s.db.Pool.QueryRow(ctx, q, id.Int64(), freeChecks).
		Scan(&u.ID, &u.ChecksLeft, &u.IsPremium, &until, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("get or create user: %w", err)
	}
	if until != nil {
		u.PremiumUntil = *until
	}
	return u, nil
}

// ConsumeCheck relies on a single conditional UPDATE so two concurrent calls
// can never both spend the last remaining check.
func (s *PostgresStore) ConsumeCheck(ctx context.Context, id domain.UserID) (bool, error) {
	const q = `
		UPDATE users
		SET checks_left = checks_left - 1
		WHERE id = $1 AND checks_left > 0
		RETURNING checks_left`

	var left int
	err := s.db.Pool.QueryRow(ctx, q, id.Int64()).Scan(&left)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the user is unknown or the allowance is spent.
		exists, lookupErr := s.exists(ctx, id)
		if lookupErr != nil {
			return false, lookupErr
		}
		if !exists {
			return false, sentinel.ErrNotFound
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume check: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) SetPremium(ctx context.Context, id domain.UserID, until time.Time) error {
	const q = `UPDATE users SET is_premium = TRUE, premium_until = $2 WHERE id = $1`

	tag, err := s.db.Pool.Exec(ctx, q, id.Int64(), until)
	if err != nil {
		return fmt.Errorf("set premium: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddChecks(ctx context.Context, id domain.UserID, n int) error {
	const q = `UPDATE users SET checks_left = checks_left + $2 WHERE id = $1`

	tag, err := s.db.Pool.Exec(ctx, q, id.Int64(), n)
	if err != nil {
		return fmt.Errorf("add checks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) exists(ctx context.Context, id domain.UserID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id.Int64()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return exists, nil
}
