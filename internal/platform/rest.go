package platform

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/envsync/internal/common"
	"github.com/loykin/envsync/internal/envfile"
	"github.com/loykin/envsync/internal/httpc"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the Heroku Platform API endpoint.
	DefaultBaseURL = "https://api.heroku.com"
	// acceptHeader pins the Platform API version.
	acceptHeader = "application/vnd.heroku+json; version=3"

	defaultTimeout = 15 * time.Second
)

// RestConfig configures the resty-backed platform client.
type RestConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	TlsConfig *tls.Config
}

type restClient struct {
	client *resty.Client
	logger *common.Logger
}

// NewRestClient builds a Client talking to a Heroku-compatible Platform API.
func NewRestClient(cfg RestConfig) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	h := httpc.Httpc{TlsConfig: cfg.TlsConfig, Timeout: cfg.Timeout}
	cli := h.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", acceptHeader).
		SetAuthToken(cfg.Token)

	return &restClient{
		client: cli,
		logger: common.GetLogger().WithComponent("platform"),
	}
}

func (c *restClient) ResolveApp(ctx context.Context, name string) (App, error) {
	var app App
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&app).
		Get("/apps/" + name)
	if err != nil {
		return App{}, fmt.Errorf("resolve app request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return App{}, fmt.Errorf("%w: no app named %q is registered with this credential", ErrAppNotFound, name)
	}
	if err := mapAPIError(resp); err != nil {
		return App{}, err
	}
	c.logger.Debug("app resolved", "app", app.Name, "id", app.ID)
	return app, nil
}

func (c *restClient) RateLimitRemaining(ctx context.Context) (int, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/account/rate-limits")
	if err != nil {
		return 0, fmt.Errorf("rate limit request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return 0, err
	}
	remaining := gjson.GetBytes(resp.Body(), "remaining")
	if !remaining.Exists() {
		return 0, fmt.Errorf("rate limit response missing remaining field")
	}
	return int(remaining.Int()), nil
}

func (c *restClient) GetConfig(ctx context.Context, app App) (envfile.Vars, error) {
	var vars envfile.Vars
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&vars).
		Get("/apps/" + app.ID + "/config-vars")
	if err != nil {
		return nil, fmt.Errorf("get config request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	return vars, nil
}

func (c *restClient) UpdateConfig(ctx context.Context, app App, vars envfile.Vars) (envfile.Vars, error) {
	var updated envfile.Vars
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(vars).
		SetResult(&updated).
		Patch("/apps/" + app.ID + "/config-vars")
	if err != nil {
		return nil, fmt.Errorf("update config request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	return updated, nil
}

// mapAPIError translates a non-2xx Platform API response into the sentinel
// error taxonomy. Error bodies are JSON {"id": ..., "message": ...}.
func mapAPIError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	msg := gjson.GetBytes(resp.Body(), "message").String()
	if msg == "" {
		msg = resp.Status()
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrAppNotFound, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	default:
		return fmt.Errorf("platform api error (status %d): %s", resp.StatusCode(), msg)
	}
}
