// Package server assembles the API server: database, repositories, routes
// and the HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/server/config"
	"github.com/dmitrijs2005/fittrack/internal/server/httpapi"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/exercises"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/metrics"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger
}

func NewApp(cfg *config.Config) *App {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := logging.NewSlogLogger(slog.New(handler))

	return &App{config: cfg, log: log}
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func (a *App) Run(ctx context.Context) error {
	db, err := InitDatabase(ctx, a.config.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	api := httpapi.New(
		users.NewPostgresRepository(db),
		exercises.NewPostgresRepository(db),
		metrics.NewPostgresRepository(db),
		[]byte(a.config.SecretKey),
		a.config.TokenValidityDuration,
		a.log,
	)

	srv := &http.Server{
		Addr:    a.config.RunAddr,
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "server listening", "addr", a.config.RunAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
