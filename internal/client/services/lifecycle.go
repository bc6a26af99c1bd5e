package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fittrack/internal/logging"
)

// Lifecycle drives sync around session events: one bootstrap sync per
// session, a full sync when connectivity returns, and a recorded error
// string for display. Sync failures here never fail the caller; the local
// store keeps serving reads and the next trigger retries.
type Lifecycle struct {
	engine *Engine
	meta   metadata.Repository
	log    logging.Logger

	// OnUnauthorized runs after a sync fails because the server rejected
	// the credential, so the session can be invalidated upstream.
	OnUnauthorized func(ctx context.Context)

	mu              sync.Mutex
	bootstrappedFor string
	bootstrapped    bool
	syncing         bool
	lastErr         string
}

func NewLifecycle(engine *Engine, meta metadata.Repository, log logging.Logger) *Lifecycle {
	return &Lifecycle{engine: engine, meta: meta, log: log}
}

// Bootstrap runs the initial full sync for the current session. Repeat
// calls with the same stored token are no-ops, so every screen can call it
// on entry.
func (l *Lifecycle) Bootstrap(ctx context.Context) {
	token, err := l.meta.Get(ctx, metadata.KeyAuthToken)
	if err != nil {
		l.log.Warn(ctx, "failed to read stored token", "error", err)
		return
	}

	l.mu.Lock()
	if l.bootstrapped && l.bootstrappedFor == token {
		l.mu.Unlock()
		return
	}
	l.bootstrappedFor = token
	l.bootstrapped = false
	l.mu.Unlock()

	if token != "" {
		l.fullSync(ctx)
	}

	l.mu.Lock()
	l.bootstrapped = true
	l.mu.Unlock()
}

// TriggerSync runs a full sync unless one is already in flight.
func (l *Lifecycle) TriggerSync(ctx context.Context) {
	l.mu.Lock()
	if l.syncing {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	l.fullSync(ctx)
}

// HandleOnline is wired to the connectivity watcher's offline-to-online
// transition.
func (l *Lifecycle) HandleOnline(ctx context.Context) {
	l.log.Info(ctx, "connection restored, starting sync")
	l.TriggerSync(ctx)
}

func (l *Lifecycle) fullSync(ctx context.Context) {
	l.mu.Lock()
	l.syncing = true
	l.lastErr = ""
	l.mu.Unlock()

	err := l.engine.SyncFull(ctx)

	l.mu.Lock()
	l.syncing = false
	if err != nil {
		l.lastErr = err.Error()
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Warn(ctx, "sync failed", "error", err)
		if errors.Is(err, api.ErrUnauthorized) && l.OnUnauthorized != nil {
			l.OnUnauthorized(ctx)
		}
	}
}

// Status reports the current sync state for display.
func (l *Lifecycle) Status() (bootstrapped, syncing bool, lastErr string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bootstrapped, l.syncing, l.lastErr
}
