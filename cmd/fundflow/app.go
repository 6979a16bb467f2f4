package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fundflow/internal/config"
	"fundflow/internal/discovery"
	"fundflow/internal/forensic"
	"fundflow/internal/logging"
	"fundflow/internal/registry"
	signalhttp "fundflow/internal/signal"
	"fundflow/internal/signal/capital"
	"fundflow/internal/signal/code"
	"fundflow/internal/signal/news"
	"fundflow/internal/signal/people"
	"fundflow/internal/signal/social"
	"fundflow/internal/signal/usage"
	"fundflow/internal/storage"
	"fundflow/internal/synthesis"
)

// app holds the wired engine for one command invocation
type app struct {
	cfg          *config.Config
	logger       *logging.Logger
	db           *storage.DB
	store        *storage.Store
	reg          *registry.Registry
	engine       *synthesis.Engine
	orchestrator *discovery.Orchestrator
}

// mustApp loads config, opens the store and wires every component. Failures
// here are fatal for the command.
func mustApp() *app {
	root := mustGetRoot()

	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	db, err := storage.Open(cfg.DBPath(root), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	client := signalhttp.NewClient(cfg.Sources.Timeout(), logger)
	reg := registry.New()

	capitalAdapter := capital.New(client, cfg.Sources.Capital, logger)
	newsAdapter := news.New(client, cfg.Sources.News, logger)

	engine := synthesis.New(
		db,
		reg,
		capitalAdapter,
		code.New(client, cfg.Sources.Code, logger),
		usage.New(client, cfg.Sources.Usage, logger),
		people.New(client, logger),
		newsAdapter,
		social.New(client, cfg.Sources.Social, logger),
		logger,
	)

	researcher := forensic.New(client, newsAdapter,
		cfg.Discovery.CrawlDepth, cfg.Discovery.MaxSublinks, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		store:  storage.NewStore(db),
		reg:    reg,
		engine: engine,
		orchestrator: discovery.New(db, reg, capitalAdapter, researcher,
			engine, cfg.Discovery, logger),
	}
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close database", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// mustGetRoot resolves the directory the .fundflow data dir lives under
func mustGetRoot() string {
	if rootFlag != "" {
		return rootFlag
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving working directory: %v\n", err)
		os.Exit(1)
	}
	return cwd
}

// newContext returns a context cancelled on SIGINT/SIGTERM
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
