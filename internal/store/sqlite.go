package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	sqlStore
}

type SQLiteOptions struct {
	MigrationsDir string
}

var sqliteDialect = dialect{
	name: "sqlite",
	upsertSquad: `INSERT INTO squads (team_id, starters_json, bench_json, available_json, updated_at) VALUES (?,?,?,?,?)
ON CONFLICT (team_id) DO UPDATE SET starters_json = excluded.starters_json, bench_json = excluded.bench_json, available_json = excluded.available_json, updated_at = excluded.updated_at`,
	isUniqueFail: containsUnique,
}

func NewSQLiteStore(path string, opts SQLiteOptions) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	migrations, err := migrationSource(opts.MigrationsDir, sqliteDialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applyMigrations(db, migrations, sqliteDialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{sqlStore{db: db, d: sqliteDialect}}, nil
}
