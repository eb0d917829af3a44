package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/loykin/envsync"
	"github.com/loykin/envsync/cmd/envsync/config"
	"github.com/loykin/envsync/internal/common"
	"github.com/spf13/viper"
)

// loadDoc reads the config document named by --config / ENVSYNC_CONFIG.
// No config file is fine; every section has a working default.
func loadDoc() (config.ConfigDoc, error) {
	var doc config.ConfigDoc
	path := strings.TrimSpace(viper.GetViper().GetString("config"))
	if path == "" {
		return doc, nil
	}
	if err := doc.Load(path); err != nil {
		return doc, err
	}
	return doc, nil
}

// newSyncer assembles the platform client, confirmation printer and optional
// history store from the config document and viper-bound flags/env.
func newSyncer(ctx context.Context) (*envsync.Syncer, func(), error) {
	v := viper.GetViper()

	doc, err := loadDoc()
	if err != nil {
		return nil, nil, err
	}
	common.SetDefaultLogger(doc.Logger())

	// Credential: explicit config beats the ENVSYNC_API_KEY binding.
	token, err := doc.AuthConfig(v.GetString("api_key")).Token(ctx)
	if err != nil {
		return nil, nil, err
	}

	ccfg, err := doc.ClientConfig(token)
	if err != nil {
		return nil, nil, err
	}
	s := envsync.New(envsync.NewClient(ccfg))
	if doc.Logging.Color != nil {
		s.Printer.SetColor(*doc.Logging.Color)
	}

	cleanup := func() {}
	if !v.GetBool("no_store") {
		if st := openHistory(&doc); st != nil {
			s.History = st
			cleanup = func() { _ = st.Close() }
		}
	}
	return s, cleanup, nil
}

// openHistory opens the history store; failures only disable history.
func openHistory(doc *config.ConfigDoc) *envsync.Store {
	logger := common.GetLogger().WithComponent("main")
	sc, err := doc.StoreConfig()
	if err != nil {
		logger.Warn("invalid store config, history disabled", "error", err)
		return nil
	}
	if sc == nil {
		return nil
	}
	st, err := sc.Open()
	if err != nil {
		logger.Warn("failed to open history store, history disabled", "error", err)
		return nil
	}
	return st
}

// resolveEnvFile normalizes the env file path to absolute to avoid
// working-directory surprises.
func resolveEnvFile(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
