// Package store owns the durable, transactional SQLite storage
// backing the job queue: the jobs/dlq/config/workers tables and the
// atomic claim protocol over them. It is the single point through
// which every row mutation flows; workers and the CLI never touch the
// database directly.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Store wraps the SQLite connection pool and the schema migration
// state. WAL journaling and a busy-timeout keep concurrent readers
// unblocked during writes and let claim statements ride out lock
// contention between worker processes instead of failing outright.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open creates dbPath if it doesn't exist and brings it to the latest
// schema; opening an existing database leaves its rows untouched.
// Schema creation is idempotent by construction (goose migrations are
// applied at most once, and the migration SQL itself uses "if not
// exists").
func Open(dbPath string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("store opened", zap.String("path", dbPath))
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
