// Package store persists sync-run history in a SQLite or PostgreSQL
// database. Table sync_runs(id, app, operation, keys, succeeded, ran_at).
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/loykin/envsync/internal/common"
)

// Driver names accepted in Config.Driver.
const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

// DbFileName is the default filename for the sqlite history database.
const DbFileName = "envsync.db"

// DriverConfig is implemented by per-driver configuration structs.
type DriverConfig interface {
	ToMap() map[string]interface{}
}

// Config selects and configures the history backend.
type Config struct {
	Driver       string `mapstructure:"driver"`
	DriverConfig DriverConfig
}

// Run is a single sync-run record.
type Run struct {
	ID        int64
	App       string
	Operation string
	Keys      int
	Succeeded bool
	RanAt     string
}

// Store wraps the history database connection.
type Store struct {
	DB     *sql.DB
	driver string
}

// Open connects a sqlite history store at the given path and ensures the
// schema. It is the default used when no store section is configured.
func Open(path string) (*Store, error) {
	cfg := Config{Driver: DriverSqlite, DriverConfig: &SqliteConfig{Path: path}}
	return cfg.Open()
}

// Open connects the configured backend and ensures the schema.
func (c *Config) Open() (*Store, error) {
	var (
		db  *sql.DB
		err error
	)
	switch c.Driver {
	case DriverPostgres:
		db, err = connectPostgres(c.DriverConfig)
	case DriverSqlite, "":
		db, err = connectSqlite(c.DriverConfig)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.Driver)
	}
	if err != nil {
		return nil, err
	}

	driver := c.Driver
	if driver == "" {
		driver = DriverSqlite
	}
	st := &Store{DB: db, driver: driver}
	if err := st.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	common.GetLogger().WithStore(driver).Debug("history store ready")
	return st, nil
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *Store) ensureSchema() error {
	ddl := `CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		app TEXT NOT NULL,
		operation TEXT NOT NULL,
		keys INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		ran_at TEXT NOT NULL
	)`
	if s.driver == DriverPostgres {
		ddl = `CREATE TABLE IF NOT EXISTS sync_runs (
		id BIGSERIAL PRIMARY KEY,
		app TEXT NOT NULL,
		operation TEXT NOT NULL,
		keys INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		ran_at TEXT NOT NULL
	)`
	}
	_, err := s.DB.Exec(ddl)
	return err
}

// RecordRun appends one history row.
func (s *Store) RecordRun(app, operation string, keys int, succeeded bool) error {
	q := `INSERT INTO sync_runs(app, operation, keys, succeeded, ran_at) VALUES(?, ?, ?, ?, ?)`
	if s.driver == DriverPostgres {
		q = `INSERT INTO sync_runs(app, operation, keys, succeeded, ran_at) VALUES($1, $2, $3, $4, $5)`
	}
	succ := 0
	if succeeded {
		succ = 1
	}
	_, err := s.DB.Exec(q, app, operation, keys, succ, time.Now().UTC().Format(time.RFC3339))
	return err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, app, operation, keys, succeeded, ran_at FROM sync_runs ORDER BY id DESC LIMIT ?`
	if s.driver == DriverPostgres {
		q = `SELECT id, app, operation, keys, succeeded, ran_at FROM sync_runs ORDER BY id DESC LIMIT $1`
	}
	rows, err := s.DB.Query(q, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var succ int
		if err := rows.Scan(&r.ID, &r.App, &r.Operation, &r.Keys, &succ, &r.RanAt); err != nil {
			return nil, err
		}
		r.Succeeded = succ != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
