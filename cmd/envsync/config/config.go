package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/loykin/envsync"
	"github.com/loykin/envsync/internal/auth"
	"github.com/loykin/envsync/internal/common"
	"github.com/loykin/envsync/internal/httpc"
	"github.com/loykin/envsync/internal/util"
	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout is a duration string (e.g. "15s").
	Timeout       string `mapstructure:"timeout" yaml:"timeout"`
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // error, warn, info, debug
	Format string `mapstructure:"format" yaml:"format"` // text, json
	Color  *bool  `mapstructure:"color" yaml:"color"`   // enable/disable colorized confirmation output
}

type StoreConfig struct {
	Disabled bool   `mapstructure:"disabled" yaml:"disabled"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	// Driver-specific sections are kept as raw maps and decoded with
	// mapstructure once the driver is known.
	Sqlite   map[string]interface{} `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres map[string]interface{} `mapstructure:"postgres" yaml:"postgres"`
}

type AuthSection struct {
	APIKey    string                  `mapstructure:"api_key" yaml:"api_key"`
	APIKeyEnv string                  `mapstructure:"api_key_env" yaml:"api_key_env"`
	OAuth2    *auth.ClientCredentials `mapstructure:"oauth2" yaml:"oauth2"`
}

type ConfigDoc struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Auth    AuthSection   `mapstructure:"auth" yaml:"auth"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	// Ensure path points to a regular file to avoid opening directories/special files
	if info, statErr := os.Stat(clean); statErr != nil || !info.Mode().IsRegular() {
		if statErr != nil {
			return statErr
		}
		return fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user; cleaned and validated above
	f, err := os.Open(clean)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	return dec.Decode(c)
}

// AuthConfig builds the credential-source config. The fallback key comes
// from the CLI layer (viper env binding) and loses to an explicit api_key.
func (c *ConfigDoc) AuthConfig(fallbackKey string) auth.Config {
	key := strings.TrimSpace(c.Auth.APIKey)
	if key == "" && strings.TrimSpace(c.Auth.APIKeyEnv) != "" {
		key = strings.TrimSpace(os.Getenv(c.Auth.APIKeyEnv))
	}
	if key == "" {
		key = strings.TrimSpace(fallbackKey)
	}
	return auth.Config{APIKey: key, OAuth2: c.Auth.OAuth2}
}

// ClientConfig assembles the platform client configuration for the token.
func (c *ConfigDoc) ClientConfig(token string) (envsync.ClientConfig, error) {
	cfg := envsync.ClientConfig{
		BaseURL: strings.TrimSpace(c.API.BaseURL),
		Token:   token,
	}
	if t, ok := util.TrimEmptyCheck(c.API.Timeout); ok {
		d, err := time.ParseDuration(t)
		if err != nil {
			return cfg, fmt.Errorf("api.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if c.API.Insecure || c.API.MinTLSVersion != "" || c.API.MaxTLSVersion != "" {
		cfg.TlsConfig = &tls.Config{
			InsecureSkipVerify: c.API.Insecure, // #nosec G402 -- explicit opt-in for test endpoints
			MinVersion:         httpc.VersionFromString(c.API.MinTLSVersion),
			MaxVersion:         httpc.VersionFromString(c.API.MaxTLSVersion),
		}
	}
	return cfg, nil
}

// StoreConfig decodes the selected driver section. Returns nil when the
// store is disabled.
func (c *ConfigDoc) StoreConfig() (*envsync.StoreConfig, error) {
	if c.Store.Disabled {
		return nil, nil
	}
	driver := util.TrimAndLower(c.Store.Driver)
	sc := &envsync.StoreConfig{Driver: driver}
	switch driver {
	case envsync.DriverPostgres:
		var pc envsync.PostgresConfig
		if err := mapstructure.Decode(c.Store.Postgres, &pc); err != nil {
			return nil, fmt.Errorf("store.postgres: %w", err)
		}
		sc.DriverConfig = &pc
	case envsync.DriverSqlite, "":
		sc.Driver = envsync.DriverSqlite
		var qc envsync.SqliteConfig
		if err := mapstructure.Decode(c.Store.Sqlite, &qc); err != nil {
			return nil, fmt.Errorf("store.sqlite: %w", err)
		}
		if qc.Path == "" && qc.DSN == "" {
			qc.Path = DefaultStorePath()
		}
		sc.DriverConfig = &qc
	default:
		return nil, fmt.Errorf("store.driver: unsupported driver %q", driver)
	}
	return sc, nil
}

// Logger builds the configured logger.
func (c *ConfigDoc) Logger() *common.Logger {
	level := common.ParseLogLevel(util.TrimAndLower(c.Logging.Level))
	if util.TrimAndLower(c.Logging.Format) == "json" {
		return common.NewJSONLogger(level)
	}
	return common.NewLogger(level)
}

// DefaultStorePath places the sqlite history db under the user config dir,
// falling back to the working directory.
func DefaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		sub := filepath.Join(dir, "envsync")
		if err := os.MkdirAll(sub, 0o750); err == nil {
			return filepath.Join(sub, envsync.StoreDBFileName)
		}
	}
	return envsync.StoreDBFileName
}
