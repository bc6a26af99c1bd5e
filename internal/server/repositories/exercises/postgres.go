package exercises

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/models"
	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/listing"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func musclesToJSON(muscles []string) string {
	if len(muscles) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(muscles)
	return string(data)
}

func musclesFromJSON(data string) []string {
	var muscles []string
	_ = json.Unmarshal([]byte(data), &muscles)
	return muscles
}

func (r *PostgresRepository) Create(ctx context.Context, userID, id string, p models.ExercisePayload) error {
	now := common.NowISO()
	query := `INSERT INTO exercises (id, user_id, name, type, muscles, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)`

	_, err := r.db.ExecContext(ctx, query, id, userID, p.Name, p.Type, musclesToJSON(p.Muscles), now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return srvmodels.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, p models.ExercisePayload) error {
	query := `UPDATE exercises SET name = $1, type = $2, muscles = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Type, musclesToJSON(p.Muscles), common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Archive(ctx context.Context, userID, id string) error {
	query := `UPDATE exercises SET archived = TRUE, updated_at = $1
	          WHERE id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to archive exercise: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) List(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.Exercise, int, error) {
	f := listing.ForQuery("", userID, q)

	var total int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`+f.Where(), f.Args()...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count exercises: %w", err)
	}

	col := "created_at"
	if q.SortBy == "name" {
		col = "name"
	}
	query := `SELECT id, name, type, muscles, archived, created_at, updated_at FROM exercises` +
		f.Where() +
		fmt.Sprintf(" ORDER BY %s %s, id %s", col, q.SortOrder, q.SortOrder) +
		" LIMIT " + f.Placeholder(q.PageSize) + " OFFSET " + f.Placeholder(q.Offset())

	rows, err := r.db.QueryContext(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	list := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		var muscles string
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &muscles, &e.Archived, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan exercise: %w", err)
		}
		e.Muscles = musclesFromJSON(muscles)
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	return list, total, nil
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, userID, id string, p models.ExerciseRecordPayload) error {
	now := common.NowISO()
	query := `INSERT INTO exercise_records
	          (id, user_id, exercise_id, kind, reps_amount, duration_ms, date, note, weight, rpe, rest_sec, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, $12, $12)`

	_, err := r.db.ExecContext(ctx, query,
		id, userID, p.ExerciseID, p.Kind, p.RepsAmount, p.DurationMs, p.Date, p.Note, p.Weight, p.RPE, p.RestSec, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return srvmodels.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create exercise record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateRecord(ctx context.Context, userID, id string, p models.ExerciseRecordPayload) error {
	// The stored amount always matches the kind: switching a record to REPS
	// clears duration_ms and vice versa.
	reps, duration := p.RepsAmount, p.DurationMs
	switch p.Kind {
	case models.ExerciseTypeReps:
		duration = nil
	case models.ExerciseTypeTime:
		reps = nil
	}

	query := `UPDATE exercise_records
	          SET exercise_id = $1, kind = $2, reps_amount = $3, duration_ms = $4,
	              date = $5, note = $6, weight = $7, rpe = $8, rest_sec = $9, updated_at = $10
	          WHERE id = $11 AND user_id = $12 AND archived = FALSE`

	res, err := r.db.ExecContext(ctx, query,
		p.ExerciseID, p.Kind, reps, duration, p.Date, p.Note, p.Weight, p.RPE, p.RestSec, common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update exercise record: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) ArchiveRecord(ctx context.Context, userID, id string) error {
	query := `UPDATE exercise_records SET archived = TRUE, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND archived = FALSE`

	res, err := r.db.ExecContext(ctx, query, common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to archive exercise record: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) ListRecords(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.ExerciseRecord, int, error) {
	f := listing.ForQuery("r.", userID, q)

	var total int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercise_records r`+f.Where(), f.Args()...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count exercise records: %w", err)
	}

	// Records are returned with a denormalized copy of the parent exercise.
	col := "r.date"
	if q.SortBy == "name" {
		col = "e.name"
	}
	query := `SELECT r.id, r.exercise_id, r.kind, r.reps_amount, r.duration_ms, r.date, r.note,
	                 r.weight, r.rpe, r.rest_sec, r.archived, r.created_at, r.updated_at,
	                 e.id, e.name, e.type, e.muscles, e.archived, e.created_at, e.updated_at
	          FROM exercise_records r
	          JOIN exercises e ON e.id = r.exercise_id` +
		f.Where() +
		fmt.Sprintf(" ORDER BY %s %s, r.id %s", col, q.SortOrder, q.SortOrder) +
		" LIMIT " + f.Placeholder(q.PageSize) + " OFFSET " + f.Placeholder(q.Offset())

	rows, err := r.db.QueryContext(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exercise records: %w", err)
	}
	defer rows.Close()

	list := []models.ExerciseRecord{}
	for rows.Next() {
		var rec models.ExerciseRecord
		var parent models.Exercise
		var reps sql.NullInt32
		var duration sql.NullInt64
		var weight, rpe sql.NullFloat64
		var restSec sql.NullInt32
		var parentMuscles string

		err := rows.Scan(
			&rec.ID, &rec.ExerciseID, &rec.Kind, &reps, &duration, &rec.Date, &rec.Note,
			&weight, &rpe, &restSec, &rec.Archived, &rec.CreatedAt, &rec.UpdatedAt,
			&parent.ID, &parent.Name, &parent.Type, &parentMuscles, &parent.Archived, &parent.CreatedAt, &parent.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan exercise record: %w", err)
		}

		if reps.Valid {
			v := int(reps.Int32)
			rec.RepsAmount = &v
		}
		if duration.Valid {
			v := duration.Int64
			rec.DurationMs = &v
		}
		if weight.Valid {
			v := weight.Float64
			rec.Weight = &v
		}
		if rpe.Valid {
			v := rpe.Float64
			rec.RPE = &v
		}
		if restSec.Valid {
			v := int(restSec.Int32)
			rec.RestSec = &v
		}
		parent.Muscles = musclesFromJSON(parentMuscles)
		rec.Exercise = &parent
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list exercise records: %w", err)
	}
	return list, total, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return srvmodels.ErrNotFound
	}
	return nil
}
