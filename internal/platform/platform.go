// Package platform wraps the remote configuration store: app lookup,
// rate-limit probe, and config-var fetch/update against a Heroku-compatible
// Platform API.
package platform

import (
	"context"

	"github.com/loykin/envsync/internal/envfile"
)

// App is a resolved application handle.
type App struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is the remote config store collaborator used by the orchestrator.
type Client interface {
	// ResolveApp looks up an app by name. Fails with ErrAuth when the
	// credential is rejected and ErrAppNotFound when no app matches.
	ResolveApp(ctx context.Context, name string) (App, error)
	// RateLimitRemaining reports how many API calls the credential has left.
	RateLimitRemaining(ctx context.Context) (int, error)
	// GetConfig fetches the app's full config-var mapping.
	GetConfig(ctx context.Context, app App) (envfile.Vars, error)
	// UpdateConfig pushes vars as a single batch. Nil values delete keys.
	// Returns the resulting mapping as reported by the platform.
	UpdateConfig(ctx context.Context, app App, vars envfile.Vars) (envfile.Vars, error)
}
