// Package auth resolves the platform credential: either a static API key or
// a token acquired through the OAuth2 client-credentials grant.
package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config selects the credential source. APIKey wins when both are set.
type Config struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// APIKeyEnv names an environment variable holding the key. Resolution
	// happens in cmd/ so the library never reads ambient process state.
	APIKeyEnv string             `mapstructure:"api_key_env" yaml:"api_key_env"`
	OAuth2    *ClientCredentials `mapstructure:"oauth2" yaml:"oauth2"`
}

// ClientCredentials holds configuration for the client-credentials grant.
type ClientCredentials struct {
	ClientID  string   `mapstructure:"client_id" yaml:"client_id"`
	ClientSec string   `mapstructure:"client_secret" yaml:"client_secret"`
	TokenURL  string   `mapstructure:"token_url" yaml:"token_url"`
	Scopes    []string `mapstructure:"scopes" yaml:"scopes"`
}

// Token returns the bearer token to authenticate Platform API calls with.
func (c Config) Token(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, nil
	}
	if c.OAuth2 != nil {
		return acquireClientCredentials(ctx, *c.OAuth2)
	}
	return "", errors.New("no api key configured: set the API key environment variable or an auth section in the config file")
}

func acquireClientCredentials(ctx context.Context, c ClientCredentials) (string, error) {
	clientID := strings.TrimSpace(c.ClientID)
	clientSecret := strings.TrimSpace(c.ClientSec)
	tokenURL := strings.TrimSpace(c.TokenURL)
	if tokenURL == "" {
		return "", errors.New("oauth2: token_url is required for client_credentials grant")
	}
	if clientID == "" || clientSecret == "" {
		return "", errors.New("oauth2: client_id and client_secret are required for client_credentials grant")
	}
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       c.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tok, err := cc.Token(ctx)
	if err != nil {
		return "", err
	}
	if !tok.Valid() || strings.TrimSpace(tok.AccessToken) == "" {
		return "", errors.New("oauth2: received invalid token")
	}
	return tok.AccessToken, nil
}
