// Package cli implements the interactive terminal client: a small REPL
// over the local store, with sync running in the background.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/config"
	"github.com/dmitrijs2005/fittrack/internal/client/notify"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fittrack/internal/client/services"
	"github.com/dmitrijs2005/fittrack/internal/logging"
)

type App struct {
	config    *config.Config
	entities  entities.Repository
	bus       *notify.Bus
	session   *services.Session
	recorder  *services.Recorder
	engine    *services.Engine
	lifecycle *services.Lifecycle
	watcher   *services.OnlineWatcher
	log       logging.Logger

	reader   *bufio.Reader
	userName string
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	repos, err := InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.ServerEndpointAddr, log)
	bus := notify.NewBus()

	watcher := services.NewOnlineWatcher(apiClient, cfg.OnlineCheckInterval, log)
	engine := services.NewEngine(apiClient, repos.Entities, repos.Outbox, repos.Metadata, bus, watcher.Online, log)
	recorder := services.NewRecorder(repos.Entities, repos.Outbox, bus, log)
	recorder.OnMutation = engine.SyncQueueAsync
	lifecycle := services.NewLifecycle(engine, repos.Metadata, log)
	session := services.NewSession(apiClient, repos.Metadata, log)

	watcher.OnOnline = lifecycle.HandleOnline
	lifecycle.OnUnauthorized = session.Invalidate

	return &App{
		config:    cfg,
		entities:  repos.Entities,
		bus:       bus,
		session:   session,
		recorder:  recorder,
		engine:    engine,
		lifecycle: lifecycle,
		watcher:   watcher,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// Run restores a stored session, starts the connectivity watcher and the
// initial sync, then hands control to the REPL until the user exits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if username, err := a.session.Restore(ctx); err == nil && username != "" {
		a.userName = username
	}

	go a.watcher.Run(ctx)
	go a.lifecycle.Bootstrap(ctx)

	a.repl(ctx)
}
