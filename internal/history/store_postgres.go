package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

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

func (s *PostgresStore) Add(ctx context.Context, e Entry) error {
	const q = `
		INSERT INTO check_history (user_id, tax_id, company_name, risk_tier, checked_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.Pool.Exec(ctx, q,
		e.UserID.Int64(), string(e.TaxID), e.CompanyName, string(e.Tier), e.CheckedAt)
	if err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID domain.UserID, limit int) ([]Entry, error) {
	const q = `
		SELECT user_id, tax_id, company_name, risk_tier, checked_at
		FROM check_history
		WHERE user_id = $1
		ORDER BY checked_at DESC
		LIMIT $2`

	rows, err := s.db.Pool.Query(ctx, q, userID.Int64(), limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.TaxID, &e.CompanyName, &e.Tier, &e.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) UserStats(ctx context.Context, userID domain.UserID) (UserStats, error) {
	const q = `
		SELECT count(*),
		       count(*) FILTER (WHERE checked_at >= date_trunc('day', now()))
		FROM check_history
		WHERE user_id = $1`

	var stats UserStats
	if err := s.db.Pool.QueryRow(ctx, q, userID.Int64()).Scan(&stats.TotalChecks, &stats.TodayChecks); err != nil {
		return UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) GlobalStats(ctx context.Context) (GlobalStats, error) {
	const q = `
		SELECT count(*),
		       count(*) FILTER (WHERE checked_at >= date_trunc('day', now()))
		FROM check_history`

	var stats GlobalStats
	if err := s.db.Pool.QueryRow(ctx, q).Scan(&stats.TotalChecks, &stats.TodayChecks); err != nil {
		return GlobalStats{}, fmt.Errorf("global stats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) AddFavorite(ctx context.Context, f Favorite) error {
	const q = `
		INSERT INTO favorites (user_id, tax_id, company_name, added_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.Pool.Exec(ctx, q, f.UserID.Int64(), string(f.TaxID), f.CompanyName, f.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) error {
	const q = `DELETE FROM favorites WHERE user_id = $1 AND tax_id = $2`

	tag, err := s.db.Pool.Exec(ctx, q, userID.Int64(), string(taxID))
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListFavorites(ctx context.Context, userID domain.UserID) ([]Favorite, error) {
	const q = `
		SELECT user_id, tax_id, company_name, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC`

	rows, err := s.db.Pool.Query(ctx, q, userID.Int64())
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.UserID, &f.TaxID, &f.CompanyName, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (s *PostgresStore) IsFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND tax_id = $2)`

	var exists bool
	if err := s.db.Pool.QueryRow(ctx, q, userID.Int64(), string(taxID)).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup favorite: %w", err)
	}
	return exists, nil
}
