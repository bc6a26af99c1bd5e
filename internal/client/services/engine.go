package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/notify"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

// Mode selects how much work a sync run does.
type Mode string

const (
	// ModeQueue only uploads the pending local mutations.
	ModeQueue Mode = "queue"
	// ModeFull uploads the queue, then pulls everything changed since the
	// last watermark and advances it.
	ModeFull Mode = "full"
)

const syncPageSize = 200

// Engine synchronizes the local store with the server.
//
// At most one run executes at a time. A request arriving while a run is in
// flight records its mode in a pending slot (full upgrades queue, never
// the reverse) and waits for the in-flight run; the run loop keeps
// draining the pending slot until it is empty, so a burst of triggers
// collapses into at most one extra iteration. A run exits immediately,
// without error, when the device is offline or no credential is stored.
type Engine struct {
	api      api.Client
	entities entities.Repository
	outbox   outbox.Repository
	meta     metadata.Repository
	bus      *notify.Bus
	online   func() bool
	log      logging.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
	runErr  error
	pending Mode
}

func NewEngine(client api.Client, ents entities.Repository, box outbox.Repository, meta metadata.Repository, bus *notify.Bus, online func() bool, log logging.Logger) *Engine {
	return &Engine{
		api:      client,
		entities: ents,
		outbox:   box,
		meta:     meta,
		bus:      bus,
		online:   online,
		log:      log,
	}
}

// SyncQueue uploads pending local mutations.
func (e *Engine) SyncQueue(ctx context.Context) error {
	return e.run(ctx, ModeQueue)
}

// SyncFull uploads pending mutations, pulls remote changes since the last
// watermark and advances the watermark.
func (e *Engine) SyncFull(ctx context.Context) error {
	return e.run(ctx, ModeFull)
}

// SyncQueueAsync kicks a queue sync in the background, for callers that
// must not block on the network (the mutation path).
func (e *Engine) SyncQueueAsync() {
	go func() {
		if err := e.SyncQueue(context.Background()); err != nil {
			e.log.Warn(context.Background(), "background sync failed", "error", err)
		}
	}()
}

func (e *Engine) run(ctx context.Context, mode Mode) error {
	e.mu.Lock()
	if e.pending != ModeFull {
		e.pending = mode
	}
	if e.running {
		// join the in-flight run; our mode is recorded in the pending slot
		done := e.done
		e.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		e.mu.Lock()
		err := e.runErr
		e.mu.Unlock()
		return err
	}
	e.running = true
	e.done = make(chan struct{})
	e.mu.Unlock()

	var (
		err  error
		stop bool
	)
	for {
		// finishing and the pending check share the lock, so a mode
		// recorded by a joiner is either executed by this run or the
		// joiner sees running == true and waits
		e.mu.Lock()
		if stop || err != nil || e.pending == "" {
			e.runErr = err
			e.running = false
			close(e.done)
			e.mu.Unlock()
			return err
		}
		m := e.pending
		e.pending = ""
		e.mu.Unlock()

		stop, err = e.iterate(ctx, m)
	}
}

func (e *Engine) iterate(ctx context.Context, mode Mode) (stop bool, err error) {
	if !e.online() {
		e.log.Debug(ctx, "sync skipped: offline")
		return true, nil
	}
	token, err := e.meta.Get(ctx, metadata.KeyAuthToken)
	if err != nil {
		return true, err
	}
	if token == "" {
		e.log.Debug(ctx, "sync skipped: not authenticated")
		return true, nil
	}

	if err := e.drainQueue(ctx); err != nil {
		return true, err
	}
	if mode == ModeFull {
		if err := e.pullAll(ctx); err != nil {
			return true, err
		}
		// the watermark moves to server-observed time, so local clock skew
		// cannot skip remote changes
		if err := e.meta.Set(ctx, metadata.KeyLastSync, e.api.ServerNow()); err != nil {
			return true, err
		}
	}
	return false, nil
}

// drainQueue pushes queued items oldest-first. Items are removed only
// after the server confirms the operation; any push failure aborts the
// drain and leaves the rest of the queue for the next run.
func (e *Engine) drainQueue(ctx context.Context) error {
	items, err := e.outbox.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := e.push(ctx, item); err != nil {
			return fmt.Errorf("pushing %s: %w", item.Key, err)
		}
		if err := e.outbox.Dequeue(ctx, item.Key); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) push(ctx context.Context, item outbox.Item) error {
	switch item.Entity {
	case models.EntityExercise:
		return pushItem(ctx, item, item.Payload.Exercise,
			e.api.CreateExercise, e.api.UpdateExercise, e.api.ArchiveExercise)
	case models.EntityExerciseRecord:
		return pushItem(ctx, item, item.Payload.ExerciseRecord,
			e.api.CreateExerciseRecord, e.api.UpdateExerciseRecord, e.api.ArchiveExerciseRecord)
	case models.EntityMetric:
		return pushItem(ctx, item, item.Payload.Metric,
			e.api.CreateMetric, e.api.UpdateMetric, e.api.ArchiveMetric)
	case models.EntityMetricRecord:
		return pushItem(ctx, item, item.Payload.MetricRecord,
			e.api.CreateMetricRecord, e.api.UpdateMetricRecord, e.api.ArchiveMetricRecord)
	}
	return fmt.Errorf("unknown entity kind %q", item.Entity)
}

// pushItem applies one queued operation remotely, with the recovery rules
// that make the drain idempotent:
//
//	archive + not found  -> success, the record is already gone
//	create + rejection   -> retry as update (a prior run already created it)
//	update + not found   -> retry as create (the create never landed)
func pushItem[P any](
	ctx context.Context,
	item outbox.Item,
	payload *P,
	create func(context.Context, string, P) error,
	update func(context.Context, string, P) error,
	archive func(context.Context, string) error,
) error {
	if item.Op == models.OpArchive {
		err := archive(ctx, item.RecordID)
		if errors.Is(err, api.ErrNotFound) {
			return nil
		}
		return err
	}

	if payload == nil {
		return fmt.Errorf("queued %s for %s has no payload", item.Op, item.Key)
	}

	if item.Op == models.OpCreate {
		err := create(ctx, item.RecordID, *payload)
		if err == nil || errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrUnavailable) || ctx.Err() != nil {
			return err
		}
		return update(ctx, item.RecordID, *payload)
	}

	err := update(ctx, item.RecordID, *payload)
	if errors.Is(err, api.ErrNotFound) {
		return create(ctx, item.RecordID, *payload)
	}
	return err
}

// pullAll pages through the four collections, upserting everything changed
// since the watermark, archived records included. A failure on any
// collection aborts the pull so the watermark is not advanced past
// unswallowed changes.
func (e *Engine) pullAll(ctx context.Context) error {
	after, err := e.meta.Get(ctx, metadata.KeyLastSync)
	if err != nil {
		return err
	}

	if err := pullPaged(ctx, after, "name", e.api.ListExercises, e.entities.PutExercises); err != nil {
		return fmt.Errorf("pulling exercises: %w", err)
	}
	e.bus.Publish(notify.Event{Kind: models.EntityExercise})

	if err := pullPaged(ctx, after, "name", e.api.ListMetrics, e.entities.PutMetrics); err != nil {
		return fmt.Errorf("pulling metrics: %w", err)
	}
	e.bus.Publish(notify.Event{Kind: models.EntityMetric})

	if err := pullPaged(ctx, after, "date", e.api.ListExerciseRecords, e.entities.PutExerciseRecords); err != nil {
		return fmt.Errorf("pulling exercise records: %w", err)
	}
	e.bus.Publish(notify.Event{Kind: models.EntityExerciseRecord})

	if err := pullPaged(ctx, after, "date", e.api.ListMetricRecords, e.entities.PutMetricRecords); err != nil {
		return fmt.Errorf("pulling metric records: %w", err)
	}
	e.bus.Publish(notify.Event{Kind: models.EntityMetricRecord})

	return nil
}

func pullPaged[T any](
	ctx context.Context,
	updatedAfter, sortBy string,
	fetch func(context.Context, api.ListOptions) (models.ListResponse[T], error),
	put func(context.Context, []T) error,
) error {
	page := 1
	for {
		resp, err := fetch(ctx, api.ListOptions{
			Page:            page,
			PageSize:        syncPageSize,
			SortBy:          sortBy,
			SortOrder:       "asc",
			IncludeArchived: true,
			UpdatedAfter:    updatedAfter,
		})
		if err != nil {
			return err
		}
		if len(resp.List) > 0 {
			if err := put(ctx, resp.List); err != nil {
				return err
			}
		}
		if len(resp.List) < syncPageSize {
			return nil
		}
		page++
	}
}

// QueueLength reports how many local mutations are awaiting upload.
func (e *Engine) QueueLength(ctx context.Context) (int, error) {
	return e.outbox.Count(ctx)
}
