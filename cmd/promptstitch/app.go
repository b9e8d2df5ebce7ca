package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/promptstitch/internal/config"
	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/library"
	"github.com/ChamsBouzaiene/promptstitch/internal/pipeline"
	"github.com/ChamsBouzaiene/promptstitch/internal/registry"
)

// app bundles the wired pipeline with its configuration so subcommands
// share one bootstrap path.
type app struct {
	cfg       *config.Config
	sink      events.Sink
	registry  *registry.Set
	generator *pipeline.Generator
	logger    *zap.Logger

	store *library.Store
}

// newApp loads configuration, the vocabulary registry, and the pipeline.
// The library store is opened lazily because most commands never touch it.
func newApp() (*app, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	cfg, err := manager.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, sink: events.NopSink{}}

	if flagVerbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		a.logger = logger
		a.sink = events.LogSink{L: logger}
	}

	a.registry = registry.NewSet(a.sink)
	if err := a.registry.LoadFile(cfg.RegistryPath); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	a.generator = pipeline.New(pipeline.Options{
		Sink:            a.sink,
		Vocab:           a.registry.Vocab(),
		Roles:           a.registry.Roles,
		Formats:         a.registry.OutputTypes,
		StrictTemplates: flagStrict || cfg.StrictTemplates,
		TemplateVersion: cfg.TemplateVersion,
		EngineVersion:   cfg.EngineVersion,
	})

	return a, nil
}

// library opens the prompt library store on first use.
func (a *app) library(ctx context.Context) (*library.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	store, err := library.NewStore(ctx, filepath.Join(a.cfg.DataDir, "library.db"), a.sink)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
