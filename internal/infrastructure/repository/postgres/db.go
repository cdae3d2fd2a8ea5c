package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the prospect tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS companies (
	id BIGSERIAL PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	domain TEXT NOT NULL,
	source TEXT NOT NULL,
	source_customer_domain TEXT NOT NULL DEFAULT '',
	icp_score INTEGER NOT NULL DEFAULT 0,
	confidence INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	rationale TEXT NOT NULL DEFAULT '',
	evidence JSONB NOT NULL DEFAULT '[]'::jsonb,
	quality TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (owner_id, domain)
);

CREATE INDEX IF NOT EXISTS idx_companies_owner_quality ON companies(owner_id, quality);

CREATE TABLE IF NOT EXISTS clusters (
	id BIGSERIAL PRIMARY KEY,
	owner_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	key TEXT NOT NULL,
	label TEXT NOT NULL,
	catch_all BOOLEAN NOT NULL DEFAULT FALSE,
	criteria JSONB NOT NULL,
	company_ids JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_clusters_owner_run ON clusters(owner_id, run_id);

CREATE TABLE IF NOT EXISTS ads (
	id BIGSERIAL PRIMARY KEY,
	cluster_id BIGINT NOT NULL REFERENCES clusters(id) ON DELETE CASCADE,
	headline TEXT NOT NULL,
	lines JSONB NOT NULL,
	cta TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
