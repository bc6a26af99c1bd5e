package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/logging"
)

// OnlineWatcher tracks server reachability by polling the health endpoint.
// The current state is readable at any time via Online; an offline to
// online transition fires the OnOnline callback.
type OnlineWatcher struct {
	api      api.Client
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	// OnOnline, when set, runs on each offline-to-online transition.
	OnOnline func(ctx context.Context)
}

func NewOnlineWatcher(client api.Client, interval time.Duration, log logging.Logger) *OnlineWatcher {
	return &OnlineWatcher{api: client, interval: interval, log: log}
}

func (w *OnlineWatcher) Online() bool {
	return w.online.Load()
}

// Run polls until ctx is cancelled. The first check happens immediately so
// startup does not wait a full interval to learn the state.
func (w *OnlineWatcher) Run(ctx context.Context) {
	w.check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *OnlineWatcher) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	up := w.api.Health(pingCtx) == nil
	was := w.online.Swap(up)

	if up && !was {
		w.log.Info(ctx, "server reachable")
		if w.OnOnline != nil {
			w.OnOnline(ctx)
		}
	}
	if !up && was {
		w.log.Info(ctx, "server unreachable, switching to offline mode")
	}
}
