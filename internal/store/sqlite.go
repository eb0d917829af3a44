package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite configuration constants
const (
	busyTimeoutMS    = 5000 // 5 seconds in milliseconds
	foreignKeysParam = "_fk=1"
)

// SqliteConfig configures the sqlite history backend.
type SqliteConfig struct {
	Path string `mapstructure:"path"`
	DSN  string `mapstructure:"dsn"`
}

func (c *SqliteConfig) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"path": c.Path,
		"dsn":  c.DSN,
	}
}

func (c *SqliteConfig) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Path != "" {
		return fmt.Sprintf("file:%s?_busy_timeout=%d&%s", c.Path, busyTimeoutMS, foreignKeysParam)
	}
	// in-memory database, mainly for tests
	return ":memory:"
}

func connectSqlite(dc DriverConfig) (*sql.DB, error) {
	cfg, _ := dc.(*SqliteConfig)
	if cfg == nil {
		cfg = &SqliteConfig{}
	}
	return sql.Open("sqlite", cfg.dsn())
}
