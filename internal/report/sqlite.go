package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

const sqliteSchema = `
CREATE TABLE runs (
	id         TEXT PRIMARY KEY,
	variant    TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	hosts      INTEGER NOT NULL DEFAULT 0,
	items      INTEGER NOT NULL DEFAULT 0,
	matched    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE records (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id             TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position           INTEGER NOT NULL,
	title              TEXT NOT NULL,
	severity           TEXT NOT NULL DEFAULT '',
	cvss               TEXT NOT NULL DEFAULT '',
	cve                TEXT NOT NULL DEFAULT '',
	policy_description TEXT NOT NULL DEFAULT '',
	actual_value       TEXT NOT NULL DEFAULT '',
	policy_value       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE record_hosts (
	record_id INTEGER NOT NULL REFERENCES records(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	host      TEXT NOT NULL,
	PRIMARY KEY (record_id, host)
);

CREATE TABLE record_evidence (
	record_id INTEGER NOT NULL REFERENCES records(id) ON DELETE CASCADE,
	host      TEXT NOT NULL,
	position  INTEGER NOT NULL,
	evidence  TEXT NOT NULL
);

CREATE INDEX idx_records_run ON records(run_id, position);
`

// WriteSQLite exports res into a new SQLite database at path, replacing any
// existing file. It returns the generated run ID.
func WriteSQLite(ctx context.Context, path, source string, res *extract.Result) (string, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", failure.IO("replace output", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", failure.IO("open sqlite", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return "", failure.IO("enable foreign keys", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return "", failure.IO("create schema", err)
	}

	runID := uuid.NewString()
	if err := insertRun(ctx, db, runID, source, res); err != nil {
		return "", failure.IO(fmt.Sprintf("write %s", path), err)
	}
	if err := db.Close(); err != nil {
		return "", failure.IO(fmt.Sprintf("close %s", path), err)
	}
	return runID, nil
}

func insertRun(ctx context.Context, db *sql.DB, runID, source string, res *extract.Result) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, variant, source, created_at, hosts, items, matched) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, string(res.Variant), source, time.Now().UTC().Format(time.RFC3339),
		res.Stats.Hosts, res.Stats.Items, res.Stats.Matched,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for pos, r := range res.Records {
		sqlRes, err := tx.ExecContext(ctx,
			`INSERT INTO records (run_id, position, title, severity, cvss, cve, policy_description, actual_value, policy_value)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, pos, r.Key.Title, r.Details.Severity, r.Key.CVSS, r.Key.CVE,
			r.Details.PolicyDescription, r.Details.ActualValue, r.Details.PolicyValue,
		)
		if err != nil {
			return fmt.Errorf("insert record %q: %w", r.Key.Title, err)
		}
		recordID, err := sqlRes.LastInsertId()
		if err != nil {
			return fmt.Errorf("record id: %w", err)
		}

		for i, h := range r.Hosts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO record_hosts (record_id, position, host) VALUES (?, ?, ?)`,
				recordID, i, h,
			); err != nil {
				return fmt.Errorf("insert host %q: %w", h, err)
			}
		}
		for _, he := range r.Evidence {
			for i, ev := range he.Evidence {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO record_evidence (record_id, host, position, evidence) VALUES (?, ?, ?, ?)`,
					recordID, he.Host, i, ev,
				); err != nil {
					return fmt.Errorf("insert evidence for %q: %w", he.Host, err)
				}
			}
		}
	}

	return tx.Commit()
}
