package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	sqlStore
}

type PostgresOptions struct {
	MigrationsDir string
}

var postgresDialect = dialect{
	name:     "postgres",
	numbered: true,
	upsertSquad: `INSERT INTO squads (team_id, starters_json, bench_json, available_json, updated_at) VALUES (?,?,?,?,?)
ON CONFLICT (team_id) DO UPDATE SET starters_json = EXCLUDED.starters_json, bench_json = EXCLUDED.bench_json, available_json = EXCLUDED.available_json, updated_at = EXCLUDED.updated_at`,
	isUniqueFail: containsUnique,
}

func NewPostgresStore(dsn string, opts PostgresOptions) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	migrations, err := migrationSource(opts.MigrationsDir, postgresDialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applyMigrations(db, migrations, postgresDialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{sqlStore{db: db, d: postgresDialect}}, nil
}
