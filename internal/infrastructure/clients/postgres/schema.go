package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(80) NOT NULL UNIQUE,
		email         VARCHAR(120) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS auth_sessions (
		token_hash CHAR(64) PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_auth_sessions_expires_at ON auth_sessions (expires_at)`,
	`CREATE TABLE IF NOT EXISTS professionals (
		id            BIGSERIAL PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		category      VARCHAR(50) NOT NULL,
		rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
		reviews_count INTEGER NOT NULL DEFAULT 0,
		distance      VARCHAR(20) NOT NULL,
		available     BOOLEAN NOT NULL DEFAULT TRUE,
		specialties   TEXT NOT NULL DEFAULT '[]',
		price         VARCHAR(20) NOT NULL,
		avatar        VARCHAR(10) NOT NULL,
		phone         VARCHAR(20) NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		location      VARCHAR(100) NOT NULL DEFAULT 'Santa Fe',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_professionals_category ON professionals (category)`,
	`CREATE TABLE IF NOT EXISTS service_requests (
		id               BIGSERIAL PRIMARY KEY,
		client_name      VARCHAR(100) NOT NULL,
		client_phone     VARCHAR(20) NOT NULL,
		professional_id  BIGINT NOT NULL REFERENCES professionals(id) ON DELETE CASCADE,
		service_date     DATE NOT NULL,
		service_time     TIME NOT NULL,
		address          VARCHAR(200) NOT NULL,
		description      TEXT NOT NULL,
		estimated_budget VARCHAR(20),
		status           VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_service_requests_professional_id ON service_requests (professional_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id              BIGSERIAL PRIMARY KEY,
		professional_id BIGINT NOT NULL REFERENCES professionals(id) ON DELETE CASCADE,
		client_name     VARCHAR(100) NOT NULL,
		client_avatar   VARCHAR(10) NOT NULL,
		rating          INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment         TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_professional_id ON reviews (professional_id)`,
}

// EnsureSchema creates the tables and indexes the API needs when they do not exist yet
func (c *Client) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
