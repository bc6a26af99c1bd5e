package entities

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// WithTx returns a repository bound to the given transactional handle.
func (r *SQLiteRepository) WithTx(tx dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: tx}
}

// inTx runs fn in a transaction so batch writes land all-or-nothing.
// A repository already bound to a transactional handle joins it.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, fn)
	}
	return fn(ctx, r.db)
}

// rowMeta holds the indexed columns extracted from a record.
type rowMeta struct {
	id        string
	updatedAt string
	date      string
	archived  bool
}

func putMany[T any](ctx context.Context, db dbx.DBTX, table string, recs []T, meta func(T) rowMeta) error {
	for _, rec := range recs {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode %s record: %w", table, err)
		}
		m := meta(rec)
		_, err = db.ExecContext(ctx, `
			INSERT INTO `+table+` (id, doc, updated_at, date, archived) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				doc = excluded.doc,
				updated_at = excluded.updated_at,
				date = excluded.date,
				archived = excluded.archived
		`, m.id, string(doc), m.updatedAt, m.date, m.archived)
		if err != nil {
			return fmt.Errorf("failed to upsert %s[%s]: %w", table, m.id, err)
		}
	}
	return nil
}

func getOne[T any](ctx context.Context, db dbx.DBTX, table, id string) (*T, error) {
	var doc string
	err := db.QueryRowContext(ctx, `SELECT doc FROM `+table+` WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", table, id, err)
	}
	var rec T
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s[%s]: %w", table, id, err)
	}
	return &rec, nil
}

func query[T any](ctx context.Context, db dbx.DBTX, q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		var rec T
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func getAll[T any](ctx context.Context, db dbx.DBTX, table string) ([]T, error) {
	return query[T](ctx, db, `SELECT doc FROM `+table+` ORDER BY id`)
}

func getByDate[T any](ctx context.Context, db dbx.DBTX, table, from, to string) ([]T, error) {
	q := `SELECT doc FROM ` + table + ` WHERE archived = 0`
	args := []any{}
	if from != "" {
		q += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		q += ` AND date <= ?`
		args = append(args, to)
	}
	q += ` ORDER BY date`
	return query[T](ctx, db, q, args...)
}

func (r *SQLiteRepository) PutExercises(ctx context.Context, recs []models.Exercise) error {
	return r.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return putMany(ctx, tx, "exercises", recs, func(e models.Exercise) rowMeta {
			return rowMeta{id: e.ID, updatedAt: e.UpdatedAt, archived: e.Archived}
		})
	})
}

func (r *SQLiteRepository) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	return getOne[models.Exercise](ctx, r.db, "exercises", id)
}

func (r *SQLiteRepository) GetAllExercises(ctx context.Context) ([]models.Exercise, error) {
	return getAll[models.Exercise](ctx, r.db, "exercises")
}

func (r *SQLiteRepository) PutExerciseRecords(ctx context.Context, recs []models.ExerciseRecord) error {
	return r.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return putMany(ctx, tx, "exercise_records", recs, func(e models.ExerciseRecord) rowMeta {
			return rowMeta{id: e.ID, updatedAt: e.UpdatedAt, date: e.Date, archived: e.Archived}
		})
	})
}

func (r *SQLiteRepository) GetExerciseRecord(ctx context.Context, id string) (*models.ExerciseRecord, error) {
	return getOne[models.ExerciseRecord](ctx, r.db, "exercise_records", id)
}

func (r *SQLiteRepository) GetAllExerciseRecords(ctx context.Context) ([]models.ExerciseRecord, error) {
	return getAll[models.ExerciseRecord](ctx, r.db, "exercise_records")
}

func (r *SQLiteRepository) GetExerciseRecordsByDate(ctx context.Context, from, to string) ([]models.ExerciseRecord, error) {
	return getByDate[models.ExerciseRecord](ctx, r.db, "exercise_records", from, to)
}

func (r *SQLiteRepository) PutMetrics(ctx context.Context, recs []models.Metric) error {
	return r.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return putMany(ctx, tx, "metrics", recs, func(m models.Metric) rowMeta {
			return rowMeta{id: m.ID, updatedAt: m.UpdatedAt, archived: m.Archived}
		})
	})
}

func (r *SQLiteRepository) GetMetric(ctx context.Context, id string) (*models.Metric, error) {
	return getOne[models.Metric](ctx, r.db, "metrics", id)
}

func (r *SQLiteRepository) GetAllMetrics(ctx context.Context) ([]models.Metric, error) {
	return getAll[models.Metric](ctx, r.db, "metrics")
}

func (r *SQLiteRepository) PutMetricRecords(ctx context.Context, recs []models.MetricRecord) error {
	return r.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return putMany(ctx, tx, "metric_records", recs, func(m models.MetricRecord) rowMeta {
			return rowMeta{id: m.ID, updatedAt: m.UpdatedAt, date: m.Date, archived: m.Archived}
		})
	})
}

func (r *SQLiteRepository) GetMetricRecord(ctx context.Context, id string) (*models.MetricRecord, error) {
	return getOne[models.MetricRecord](ctx, r.db, "metric_records", id)
}

func (r *SQLiteRepository) GetAllMetricRecords(ctx context.Context) ([]models.MetricRecord, error) {
	return getAll[models.MetricRecord](ctx, r.db, "metric_records")
}

func (r *SQLiteRepository) GetMetricRecordsByDate(ctx context.Context, from, to string) ([]models.MetricRecord, error) {
	return getByDate[models.MetricRecord](ctx, r.db, "metric_records", from, to)
}
