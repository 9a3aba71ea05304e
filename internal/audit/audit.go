// Package audit records cleaning runs in a local sqlite database so the
// recoding step stays reviewable after the fact: which files were cleaned
// when, and which values failed to match. Wordlists themselves are never
// stored here.
package audit

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fieldnotes-dev/recoder/internal/clean"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (creating if needed) the audit database and applies pending
// migrations.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

// Run describes one completed cleaning invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	DataPath  string
	DictPath  string
	Columns   int
}

// NewRun stamps a run with a fresh id and the current time.
func NewRun(dataPath, dictPath string, columns int) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC().Truncate(time.Second),
		DataPath:  dataPath,
		DictPath:  dictPath,
		Columns:   columns,
	}
}

// Record stores the run and every issue from its report in one
// transaction. A nil report records a clean run with zero issues.
func Record(ctx context.Context, db *sql.DB, run Run, rep *clean.Report) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, data_path, dict_path, columns, warnings, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.DataPath, run.DictPath, run.Columns,
		rep.TotalWarnings(), rep.TotalErrors())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if rep != nil {
		for _, c := range rep.Columns {
			for _, w := range c.Warnings {
				_, err = tx.ExecContext(ctx,
					`INSERT INTO run_issues (run_id, column_name, kind, value, detail, occurrences)
					 VALUES (?, ?, 'warning', ?, ?, ?)`,
					run.ID, c.Name, w.Value, w.Suggestion, w.Count)
				if err != nil {
					return fmt.Errorf("insert warning: %w", err)
				}
			}
			for _, e := range c.Errors {
				_, err = tx.ExecContext(ctx,
					`INSERT INTO run_issues (run_id, column_name, kind, value, detail)
					 VALUES (?, ?, 'error', '', ?)`,
					run.ID, c.Name, e)
				if err != nil {
					return fmt.Errorf("insert error: %w", err)
				}
			}
		}
	}
	return tx.Commit()
}
