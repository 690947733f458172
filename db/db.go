package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Schema holds one JSONB snapshot per bracket set and per pool stage.
const Schema = `
CREATE TABLE IF NOT EXISTS bracket_sets (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	format      TEXT NOT NULL,
	snapshot    JSONB NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	archived_at TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS pool_stages (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	snapshot   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to ping database within %v: %w", timeout, err), db.Close())
	}

	return db, nil
}

// Migrate creates the snapshot tables when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
