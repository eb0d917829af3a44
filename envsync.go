// Package envsync synchronizes config vars between a local env file and an
// application hosted on a Heroku-compatible platform.
package envsync

import (
	"context"
	"fmt"

	"github.com/loykin/envsync/internal/auth"
	"github.com/loykin/envsync/internal/common"
	"github.com/loykin/envsync/internal/envfile"
	"github.com/loykin/envsync/internal/platform"
	"github.com/loykin/envsync/internal/store"
)

// Re-export commonly used types for public API

// Vars is a config-var mapping; a nil value deletes the key on upload.
type Vars = envfile.Vars

// App is a resolved application handle.
type App = platform.App

// Client is the remote config store collaborator.
type Client = platform.Client

// ClientConfig configures the resty-backed platform client.
type ClientConfig = platform.RestConfig

// AuthConfig selects the credential source.
type AuthConfig = auth.Config

// Store persists sync-run history.
type Store = store.Store

// StoreConfig selects and configures the history backend.
type StoreConfig = store.Config

// Run is a single sync-run record.
type Run = store.Run

// SqliteConfig configures the sqlite history backend.
type SqliteConfig = store.SqliteConfig

// PostgresConfig configures the postgres history backend.
type PostgresConfig = store.PostgresConfig

// Driver names for StoreConfig.Driver.
const (
	DriverSqlite   = store.DriverSqlite
	DriverPostgres = store.DriverPostgres
)

// StoreDBFileName is the default sqlite filename used for sync history.
const StoreDBFileName = store.DbFileName

// Error kinds surfaced by Dump and Upload; match with errors.Is.
var (
	ErrAuth         = platform.ErrAuth
	ErrAppNotFound  = platform.ErrAppNotFound
	ErrRateLimited  = platform.ErrRateLimited
	ErrUpdateFailed = platform.ErrUpdateFailed
)

// NewClient builds a platform client from explicit configuration.
func NewClient(cfg ClientConfig) Client { return platform.NewRestClient(cfg) }

// OpenStore opens (and initializes) the sqlite history store at the given path.
func OpenStore(path string) (*Store, error) { return store.Open(path) }

// Syncer composes the platform client, the env-file codec and the optional
// history store for the two top-level operations.
type Syncer struct {
	Client Client
	// History is optional; failures to record are logged, never fatal.
	History *Store
	// Printer receives the user-visible confirmation stream. Defaults to
	// a stdout printer.
	Printer *common.Printer
}

// New returns a Syncer with the default stdout confirmation stream.
func New(c Client) *Syncer {
	return &Syncer{Client: c, Printer: common.NewPrinter()}
}

func (s *Syncer) printer() *common.Printer {
	if s.Printer != nil {
		return s.Printer
	}
	return common.NewPrinter()
}

// resolveApp looks up the app and then verifies the credential still has API
// quota, so the substantive fetch/update call is never attempted at zero.
func (s *Syncer) resolveApp(ctx context.Context, name string) (App, error) {
	app, err := s.Client.ResolveApp(ctx, name)
	if err != nil {
		return App{}, err
	}
	remaining, err := s.Client.RateLimitRemaining(ctx)
	if err != nil {
		return App{}, err
	}
	if remaining < 1 {
		return App{}, fmt.Errorf("%w: you have reached the maximum number of API calls for your key, please try later", platform.ErrRateLimited)
	}
	return app, nil
}

// Dump fetches the app's config vars and writes them to path as key=value
// lines. A write failure is reported on the confirmation stream and is not
// an error; lookup, credential and rate-limit failures are.
func (s *Syncer) Dump(ctx context.Context, appName, path string) error {
	logger := common.GetLogger().WithComponent("syncer").WithApp(appName)
	p := s.printer()

	app, err := s.resolveApp(ctx, appName)
	if err != nil {
		return err
	}
	vars, err := s.Client.GetConfig(ctx, app)
	if err != nil {
		return err
	}

	if err := envfile.Write(vars, path); err != nil {
		logger.Warn("env file write failed", "path", path, "error", err)
		p.Failure("Config vars dump failed. Please try again.")
		s.recordRun(appName, "dump", len(vars), false)
		return nil
	}
	p.Success("Config vars dumped successfully at %s", path)
	s.recordRun(appName, "dump", len(vars), true)
	return nil
}

// Upload parses the env file at path and pushes the resulting mapping to the
// app as a single batch. With setAlt, comment lines carrying "alt_value="
// override the value of the next key-value line.
func (s *Syncer) Upload(ctx context.Context, appName, path string, setAlt bool) error {
	p := s.printer()

	parser := envfile.Parser{
		AltMode:  setAlt,
		OnAccept: p.Accepted,
		OnMalformed: func(string) {
			p.Skipped("Skipping line : Not of the form key=value")
		},
	}
	vars, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	app, err := s.resolveApp(ctx, appName)
	if err != nil {
		return err
	}
	updated, err := s.Client.UpdateConfig(ctx, app, vars)
	if err != nil {
		s.recordRun(appName, "upload", len(vars), false)
		return err
	}
	if len(updated) == 0 {
		s.recordRun(appName, "upload", len(vars), false)
		return fmt.Errorf("%w: possibly an error with the platform, please contact support", platform.ErrUpdateFailed)
	}
	p.Success("Config vars updated successfully.")
	s.recordRun(appName, "upload", len(vars), true)
	return nil
}

func (s *Syncer) recordRun(app, operation string, keys int, succeeded bool) {
	if s.History == nil {
		return
	}
	if err := s.History.RecordRun(app, operation, keys, succeeded); err != nil {
		common.GetLogger().WithComponent("syncer").Warn("failed to record sync run", "error", err)
	}
}
