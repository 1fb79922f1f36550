package database

import (
	"context"

	"go.uber.org/zap"
)

// Schema statements, applied in order on the primary. Idempotent so the
// server and the seeder can both run them at startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		account_number TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
		type           TEXT NOT NULL CHECK (type IN ('checking','savings','credit')),
		credit_limit   DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (credit_limit >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id             BIGSERIAL PRIMARY KEY,
		account_number TEXT NOT NULL REFERENCES accounts(account_number),
		amount         DOUBLE PRECISION NOT NULL CHECK (amount > 0),
		type           TEXT NOT NULL CHECK (type IN ('withdrawal','deposit')),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_created
		ON transactions (account_number, type, created_at)`,
}

// RunMigrations applies the schema on the primary pool.
func RunMigrations(ctx context.Context, logger *zap.Logger, db *DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	logger.Info("database migrations applied", zap.Int("statements", len(migrations)))
	return nil
}
