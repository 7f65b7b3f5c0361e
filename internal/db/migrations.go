package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSchemaTooNew is returned when the file was written by a newer build.
var ErrSchemaTooNew = errors.New("run history was created by a newer version")

// migration n brings the schema from user_version n to n+1.
type migration struct {
	name string
	stmt string
}

var migrations = []migration{
	{
		name: "create runs",
		stmt: `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_path TEXT NOT NULL,
			dataset_sha256 TEXT NOT NULL,
			record_count INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0,
			top_n INTEGER NOT NULL DEFAULT 0,
			histogram_bins INTEGER NOT NULL DEFAULT 0,
			fingerprint TEXT NOT NULL,
			created_at TEXT NOT NULL,
			year INTEGER GENERATED ALWAYS AS (CAST(strftime('%Y', created_at) AS INTEGER)) STORED,
			month INTEGER GENERATED ALWAYS AS (CAST(strftime('%m', created_at) AS INTEGER)) STORED
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset_sha256);
		CREATE INDEX IF NOT EXISTS idx_runs_year_month ON runs(year, month);`,
	},
	{
		name: "create run_aggregates",
		stmt: `
		CREATE TABLE IF NOT EXISTS run_aggregates (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			chart TEXT NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (run_id, chart, position)
		);`,
	},
	{
		// Early builds stored time.Time.String(); strftime cannot read the
		// " +0000 UTC" suffix, which left year and month NULL.
		name: "normalize run timestamps",
		stmt: `
		UPDATE runs
		SET created_at = SUBSTR(created_at, 1, 19)
		WHERE length(created_at) > 19 AND created_at LIKE '% UTC';`,
	},
}

// SchemaVersion returns the number of migrations applied to the file.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (db *DB) migrate(ctx context.Context) error {
	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("%w: schema %d, this build knows %d", ErrSchemaTooNew, current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		if err := db.apply(ctx, v); err != nil {
			return fmt.Errorf("migration %d (%s): %w", v+1, migrations[v].name, err)
		}
	}
	return nil
}

func (db *DB) apply(ctx context.Context, v int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) { _ = tx.Rollback() }(tx)

	if _, err := tx.ExecContext(ctx, migrations[v].stmt); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
		return err
	}
	return tx.Commit()
}
