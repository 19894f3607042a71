package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		name        TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		phone       TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		seq          BIGSERIAL NOT NULL,
		date         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		amount       DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
		category     TEXT NOT NULL CHECK (category IN ('Revenue', 'Expense')),
		status       TEXT NOT NULL CHECK (status IN ('Paid', 'Pending')),
		user_id      TEXT NOT NULL,
		user_profile TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_date_idx ON transactions (date)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id)`,
}

// Migrate creates the relational schema when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	return nil
}
