package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// migration one schema step, applied in order and recorded in schema_migrations.
type migration struct {
	Name string
	SQL  string
}

var migrations = []migration{
	{
		Name: "0001_init",
		SQL: `
CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	first_name VARCHAR(100) NOT NULL DEFAULT '',
	last_name VARCHAR(100) NOT NULL DEFAULT '',
	email_hash BYTEA NOT NULL,
	password_hash BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_email_hash ON users (email_hash);

CREATE TABLE IF NOT EXISTS categories (
	category_id UUID PRIMARY KEY,
	app_user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	category_name VARCHAR(100) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_categories_app_user ON categories (app_user_id);

CREATE TABLE IF NOT EXISTS contacts (
	contact_id UUID PRIMARY KEY,
	app_user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	date_of_birth DATE,
	address1 VARCHAR(255) NOT NULL DEFAULT '',
	address2 VARCHAR(255),
	city VARCHAR(100) NOT NULL DEFAULT '',
	state CHAR(2) NOT NULL DEFAULT '',
	zip_code VARCHAR(10) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	phone_number VARCHAR(25) NOT NULL DEFAULT '',
	image_data BYTEA,
	image_type VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contacts_app_user_name ON contacts (app_user_id, last_name, first_name);

CREATE TABLE IF NOT EXISTS contact_categories (
	contact_id UUID NOT NULL REFERENCES contacts(contact_id) ON DELETE CASCADE,
	category_id UUID NOT NULL REFERENCES categories(category_id) ON DELETE CASCADE,
	PRIMARY KEY (contact_id, category_id)
);

CREATE INDEX IF NOT EXISTS idx_contact_categories_category ON contact_categories (category_id)
`,
	},
}

// Migrate applies pending schema migrations. Idempotent: applied names are
// recorded in schema_migrations and skipped on the next boot.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var one int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE name = $1`, m.Name).Scan(&one)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check migration %s: %w", m.Name, err)
		}

		logger.Info("Applying migration", zap.String("name", m.Name))

		for _, stmt := range strings.Split(m.SQL, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				logger.Error("Migration statement failed", zap.String("name", m.Name), zap.Error(err))
				return fmt.Errorf("migration %s failed: %w", m.Name, err)
			}
		}

		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
	}

	return nil
}
