package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection and hands out repositories over it.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open connects to the SQLite database at path, applies pragmas and creates
// any missing tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return &Store{db: db, drv: drv, seq: seq}, nil
}

// dsn adds connection-level pragmas so every pooled connection gets them,
// not only the one applyPragmas happens to run on.
func dsn(path string) string {
	const params = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(1)"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	return "file:" + path + "?" + params
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.drv.Close() }

// DocumentRepo returns the lesson-plan document repository.
func (s *Store) DocumentRepo() DocumentRepo { return &documentRepo{drv: s.drv} }

// RubricRepo returns the extracted-rubric repository.
func (s *Store) RubricRepo() RubricRepo { return &rubricRepo{drv: s.drv} }

// ScoreRepo returns the per-criterion score repository.
func (s *Store) ScoreRepo() ScoreRepo { return &scoreRepo{drv: s.drv} }

// GradeRepo returns the final-grade repository.
func (s *Store) GradeRepo() GradeRepo { return &gradeRepo{drv: s.drv, seq: s.seq} }

// EventRepo returns the LLM event repository.
func (s *Store) EventRepo() EventRepo { return &eventRepo{drv: s.drv, seq: s.seq} }

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PENILAI_DB environment variable
// 2. $XDG_DATA_HOME/penilai/penilai.db
// 3. ~/.local/share/penilai/penilai.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PENILAI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "penilai", "penilai.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

var sqlite = entsql.Dialect(dialect.SQLite)

func execBuilder(ctx context.Context, ex dialect.ExecQuerier, b entsql.Querier) error {
	q, args := b.Query()
	return ex.Exec(ctx, q, args, nil)
}

func queryBuilder(ctx context.Context, ex dialect.ExecQuerier, b entsql.Querier) (*entsql.Rows, error) {
	q, args := b.Query()
	rows := &entsql.Rows{}
	if err := ex.Query(ctx, q, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// timeRange applies the From/To bounds of opts to column.
func timeRange(s *entsql.Selector, column string, opts QueryOpts) {
	if !opts.From.IsZero() {
		s.Where(entsql.GTE(column, opts.From))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE(column, opts.To))
	}
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
}
