package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/hooks"
	"github.com/otk-tools/otk/internal/index"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/owner"
	"github.com/otk-tools/otk/internal/settings"
)

// app bundles the wired dependencies each CLI command needs.
type app struct {
	cwd   string
	cfg   *settings.Settings
	log   *logging.Logger
	idx   *index.Manager
	store artifact.Store
	hooks *hooks.Manager
	owner *owner.Resolver
}

// loadApp resolves settings from the working directory and wires the
// store, index, hooks, and owner resolver.
func loadApp() (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := settings.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	idx, err := index.NewManager(filepath.Join(cfg.Artifacts.Root, index.FileName), log)
	if err != nil {
		log.Warn("index unavailable", zap.Error(err))
		idx = nil
	}

	store, err := artifact.NewFileStore(cfg, idx, log)
	if err != nil {
		return nil, fmt.Errorf("creating artifact store: %w", err)
	}

	return &app{
		cwd:   cwd,
		cfg:   cfg,
		log:   log,
		idx:   idx,
		store: store,
		hooks: hooks.NewManager(cfg, cfg.Artifacts.Root),
		owner: owner.NewResolver(cwd),
	}, nil
}

// resolveOwner prefers an explicit --owner flag over the cascade.
func (a *app) resolveOwner(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return a.owner.Resolve()
}
