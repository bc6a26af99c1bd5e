package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, entity models.EntityKind, op models.SyncOp, id string, payload models.SyncPayload) error {
	key := Key(entity, id)
	now := common.NowISO()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		existing, err := getItem(ctx, tx, key)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			return upsertItem(ctx, tx, Item{
				Key: key, Entity: entity, Op: op, RecordID: id,
				Payload: payload, CreatedAt: now, UpdatedAt: now,
			})

		case existing.Op == models.OpCreate && op == models.OpUpdate:
			// the server has never seen this record, so the refreshed
			// payload still travels as a create
			existing.Payload = payload
			existing.UpdatedAt = now
			return upsertItem(ctx, tx, *existing)

		case existing.Op == models.OpCreate && op == models.OpArchive:
			return deleteItem(ctx, tx, key)

		case existing.Op == models.OpArchive && op != models.OpArchive:
			// archive wins over a late create or update; the refreshed
			// timestamp moves it to the back of the queue
			existing.UpdatedAt = now
			return upsertItem(ctx, tx, *existing)

		default:
			existing.Op = op
			existing.Payload = payload
			existing.UpdatedAt = now
			return upsertItem(ctx, tx, *existing)
		}
	})
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, entity, op, record_id, payload, created_at, updated_at
		FROM to_sync ORDER BY updated_at ASC, key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var payload string
		if err := rows.Scan(&it.Key, &it.Entity, &it.Op, &it.RecordID, &payload, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &it.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode queue payload[%s]: %w", it.Key, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) Dequeue(ctx context.Context, key string) error {
	return deleteItem(ctx, r.db, key)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM to_sync`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return n, nil
}

func getItem(ctx context.Context, db dbx.DBTX, key string) (*Item, error) {
	var it Item
	var payload string
	err := db.QueryRowContext(ctx, `
		SELECT key, entity, op, record_id, payload, created_at, updated_at
		FROM to_sync WHERE key = ?
	`, key).Scan(&it.Key, &it.Entity, &it.Op, &it.RecordID, &payload, &it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue item[%s]: %w", key, err)
	}
	if err := json.Unmarshal([]byte(payload), &it.Payload); err != nil {
		return nil, fmt.Errorf("failed to decode queue payload[%s]: %w", key, err)
	}
	return &it, nil
}

func upsertItem(ctx context.Context, db dbx.DBTX, it Item) error {
	payload, err := json.Marshal(it.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode queue payload[%s]: %w", it.Key, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO to_sync (key, entity, op, record_id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			entity = excluded.entity,
			op = excluded.op,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, it.Key, string(it.Entity), string(it.Op), it.RecordID, string(payload), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert queue item[%s]: %w", it.Key, err)
	}
	return nil
}

func deleteItem(ctx context.Context, db dbx.DBTX, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM to_sync WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete queue item[%s]: %w", key, err)
	}
	return nil
}
