package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestToken_APIKeyWins(t *testing.T) {
	c := Config{APIKey: " secret-key ", OAuth2: &ClientCredentials{TokenURL: "http://ignored"}}
	tok, err := c.Token(context.Background())
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if tok != "secret-key" {
		t.Fatalf("expected trimmed api key, got %q", tok)
	}
}

func TestToken_NoCredential(t *testing.T) {
	var c Config
	if _, err := c.Token(context.Background()); err == nil {
		t.Fatalf("expected error when no credential configured")
	}
}

func TestToken_ClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type %q", r.Form.Get("grant_type"))
		}
		if r.Form.Get("client_id") != "cid" {
			t.Errorf("unexpected client_id %q", r.Form.Get("client_id"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	c := Config{OAuth2: &ClientCredentials{ClientID: "cid", ClientSec: "sec", TokenURL: srv.URL + "/token"}}
	tok, err := c.Token(context.Background())
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("unexpected token %q", tok)
	}
}

func TestToken_ClientCredentials_MissingFields(t *testing.T) {
	cases := []ClientCredentials{
		{ClientID: "cid", ClientSec: "sec"},        // no token_url
		{TokenURL: "http://example.com/token"},     // no client id/secret
		{ClientID: "cid", TokenURL: "http://x/t1"}, // no secret
	}
	for _, cc := range cases {
		c := Config{OAuth2: &cc}
		if _, err := c.Token(context.Background()); err == nil {
			t.Fatalf("expected error for incomplete config %#v", cc)
		} else if !strings.HasPrefix(err.Error(), "oauth2:") {
			t.Fatalf("expected oauth2 error, got %v", err)
		}
	}
}
