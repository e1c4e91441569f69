package postgres

import (
	"context"
	"fmt"
)

// schema is applied on startup. Statements are idempotent so restarts are
// safe without a separate migration step.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGINT PRIMARY KEY,
    checks_left   INTEGER NOT NULL DEFAULT 0,
    is_premium    BOOLEAN NOT NULL DEFAULT FALSE,
    premium_until TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS check_history (
    id           BIGSERIAL PRIMARY KEY,
    user_id      BIGINT NOT NULL,
    tax_id       TEXT NOT NULL,
    company_name TEXT NOT NULL DEFAULT '',
    risk_tier    TEXT NOT NULL,
    checked_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_check_history_user
    ON check_history (user_id, checked_at DESC);

CREATE TABLE IF NOT EXISTS favorites (
    user_id      BIGINT NOT NULL,
    tax_id       TEXT NOT NULL,
    company_name TEXT NOT NULL DEFAULT '',
    added_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, tax_id)
);

CREATE TABLE IF NOT EXISTS payments (
    id               TEXT PRIMARY KEY,
    user_id          BIGINT NOT NULL,
    tariff           TEXT NOT NULL,
    amount           TEXT NOT NULL,
    status           TEXT NOT NULL,
    confirmation_url TEXT NOT NULL DEFAULT '',
    applied          BOOLEAN NOT NULL DEFAULT FALSE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_payments_user
    ON payments (user_id, created_at DESC);
`

// EnsureSchema creates the tables the stores expect.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
