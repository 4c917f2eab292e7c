// internal/store/schema.go
package store

import (
	"context"
	"database/sql"

	"finops-assessment/internal/common/database"
)

// migrations are applied in order inside one transaction. Every statement
// is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS assessments (
		id                 UUID PRIMARY KEY,
		org_hash           CHAR(64)    NOT NULL,
		user_hash          CHAR(64)    NOT NULL,
		scope              TEXT        NOT NULL CHECK (scope IN ('complete', 'domain')),
		domain             TEXT,
		technology_scope   TEXT,
		status             TEXT        NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'completed')),
		overall_percentage INTEGER     CHECK (overall_percentage BETWEEN 0 AND 100),
		recommendations    TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT assessments_domain_scope CHECK (scope = 'complete' OR domain IS NOT NULL),
		CONSTRAINT assessments_completed_scored CHECK (status <> 'completed' OR overall_percentage IS NOT NULL)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_benchmark
		ON assessments (status, org_hash, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS responses (
		assessment_id  UUID        NOT NULL REFERENCES assessments (id) ON DELETE CASCADE,
		capability_id  TEXT        NOT NULL,
		lens_id        TEXT        NOT NULL,
		answer_level   TEXT        NOT NULL,
		answer_details TEXT        NOT NULL DEFAULT '',
		score          SMALLINT    NOT NULL CHECK (score BETWEEN 0 AND 4),
		improvement    TEXT        NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (assessment_id, capability_id, lens_id)
	)`,
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	return database.InTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range migrations {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return database.MapError("migrate", err)
			}
		}
		return nil
	})
}
