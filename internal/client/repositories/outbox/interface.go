// Package outbox stores pending local mutations awaiting upload (the
// "to_sync" table). The queue holds at most one item per entity/id pair:
// re-queuing the same key coalesces with the existing item instead of
// appending.
package outbox

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/models"
)

// Item is one pending mutation. Key is "<entity>:<record id>".
type Item struct {
	Key       string
	Entity    models.EntityKind
	Op        models.SyncOp
	RecordID  string
	Payload   models.SyncPayload
	CreatedAt string
	UpdatedAt string
}

// Repository is the durable queue.
//
// Enqueue applies the coalescing rules against any queued item with the
// same key:
//
//	queued create + update   -> stays create, payload refreshed
//	queued create + archive  -> item deleted (nothing to undo remotely)
//	queued archive + update  -> stays archive
//	anything else            -> replaced by the new op and payload
//
// List returns items oldest-first by the time they were last (re)queued.
// Dequeue removes a confirmed item; missing keys are not an error.
type Repository interface {
	Enqueue(ctx context.Context, entity models.EntityKind, op models.SyncOp, id string, payload models.SyncPayload) error
	List(ctx context.Context) ([]Item, error)
	Dequeue(ctx context.Context, key string) error
	Count(ctx context.Context) (int, error)
}

// Key builds the queue key for an entity/id pair.
func Key(entity models.EntityKind, id string) string {
	return string(entity) + ":" + id
}
