//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors the production tables the agenda touches. Integration tests
// run against a fresh container, so the schema is applied here rather than
// through a migration tool.
const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS customers (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	full_name  TEXT NOT NULL,
	phone      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS settings_companies (
	id   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS insurance_products (
	id      UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name_tr TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS policies (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	policy_no       TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	type            TEXT NOT NULL DEFAULT '',
	product_id      UUID REFERENCES insurance_products(id),
	start_date      DATE NOT NULL,
	end_date        DATE NOT NULL,
	premium         DOUBLE PRECISION NOT NULL DEFAULT 0,
	commission      DOUBLE PRECISION,
	description     TEXT,
	is_acknowledged BOOLEAN NOT NULL DEFAULT false,
	customer_id     UUID REFERENCES customers(id),
	company_id      UUID REFERENCES settings_companies(id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reminders (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title        TEXT NOT NULL,
	description  TEXT,
	due_date     DATE NOT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT false,
	priority     TEXT NOT NULL DEFAULT 'medium',
	customer_id  UUID REFERENCES customers(id),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notes (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	content     TEXT NOT NULL,
	is_pinned   BOOLEAN NOT NULL DEFAULT false,
	customer_id UUID REFERENCES customers(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the agenda
// schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ajanda_test"),
		tcpostgres.WithUsername("ajanda"),
		tcpostgres.WithPassword("ajanda"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Container lifetime is managed by the singleton Manager; Ryuk reaps it.
	return &PostgresContainer{Container: container, URL: url, DB: db}
}

// Truncate clears every agenda table. Use between tests for isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx,
		"TRUNCATE policies, reminders, notes, customers, settings_companies, insurance_products CASCADE")
	return err
}
