package feedback

import (
	"context"
	"fmt"
)

// archiveSchemaVersion is the current archive schema version. Bump this when
// the schema changes; users delete the archive database to adopt it.
const archiveSchemaVersion = 1

const archiveSchemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    call_sid TEXT NOT NULL,
    from_number TEXT,
    to_number TEXT,
    completed_at TEXT NOT NULL,
    product_rating INTEGER,
    delivery_rating INTEGER,
    final_review TEXT
);

CREATE INDEX IF NOT EXISTS idx_feedback_records_call_sid
    ON feedback_records (call_sid);
`

func (a *Archive) initSchema(ctx context.Context) error {
	var tableExists int
	err := a.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := a.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, archiveSchemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", archiveSchemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := a.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != archiveSchemaVersion {
		return fmt.Errorf("archive schema version %d, expected %d (delete the archive database to rebuild)", version, archiveSchemaVersion)
	}
	return nil
}
