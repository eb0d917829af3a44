package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresConfig configures the postgres history backend. Either DSN or the
// individual fields may be set; DSN wins.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"dsn":      c.DSN,
		"host":     c.Host,
		"port":     c.Port,
		"user":     c.User,
		"password": c.Password,
		"dbname":   c.DBName,
		"sslmode":  c.SSLMode,
	}
}

func (c *PostgresConfig) dsn() string {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN
	}
	if c.Host == "" {
		return ""
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.DBName, sslmode)
}

func connectPostgres(dc DriverConfig) (*sql.DB, error) {
	cfg, _ := dc.(*PostgresConfig)
	if cfg == nil || cfg.dsn() == "" {
		return nil, errors.New("postgres store requires a dsn or host configuration")
	}
	return sql.Open("pgx", cfg.dsn())
}
