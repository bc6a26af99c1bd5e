package metrics

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

func (r *PostgresRepository) Create(ctx context.Context, userID, id string, p models.MetricPayload) error {
	now := common.NowISO()
	query := `INSERT INTO metrics (id, user_id, name, unit, muscles, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)`

	_, err := r.db.ExecContext(ctx, query, id, userID, p.Name, p.Unit, musclesToJSON(p.Muscles), now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return srvmodels.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create metric: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, p models.MetricPayload) error {
	query := `UPDATE metrics SET name = $1, unit = $2, muscles = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Unit, musclesToJSON(p.Muscles), common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update metric: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Archive(ctx context.Context, userID, id string) error {
	query := `UPDATE metrics SET archived = TRUE, updated_at = $1
	          WHERE id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to archive metric: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) List(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.Metric, int, error) {
	f := listing.ForQuery("", userID, q)

	var total int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM metrics`+f.Where(), f.Args()...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count metrics: %w", err)
	}

	col := "created_at"
	if q.SortBy == "name" {
		col = "name"
	}
	query := `SELECT id, name, unit, muscles, archived, created_at, updated_at FROM metrics` +
		f.Where() +
		fmt.Sprintf(" ORDER BY %s %s, id %s", col, q.SortOrder, q.SortOrder) +
		" LIMIT " + f.Placeholder(q.PageSize) + " OFFSET " + f.Placeholder(q.Offset())

	rows, err := r.db.QueryContext(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	list := []models.Metric{}
	for rows.Next() {
		var m models.Metric
		var muscles string
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &muscles, &m.Archived, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan metric: %w", err)
		}
		m.Muscles = musclesFromJSON(muscles)
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list metrics: %w", err)
	}
	return list, total, nil
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, userID, id string, p models.MetricRecordPayload) error {
	now := common.NowISO()
	query := `INSERT INTO metric_records (id, user_id, metric_id, value, date, note, archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $7)`

	_, err := r.db.ExecContext(ctx, query, id, userID, p.MetricID, p.Value, p.Date, p.Note, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return srvmodels.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create metric record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateRecord(ctx context.Context, userID, id string, p models.MetricRecordPayload) error {
	query := `UPDATE metric_records SET metric_id = $1, value = $2, date = $3, note = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7 AND archived = FALSE`

	res, err := r.db.ExecContext(ctx, query, p.MetricID, p.Value, p.Date, p.Note, common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update metric record: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) ArchiveRecord(ctx context.Context, userID, id string) error {
	query := `UPDATE metric_records SET archived = TRUE, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND archived = FALSE`

	res, err := r.db.ExecContext(ctx, query, common.NowISO(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to archive metric record: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) ListRecords(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.MetricRecord, int, error) {
	f := listing.ForQuery("r.", userID, q)

	var total int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM metric_records r`+f.Where(), f.Args()...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count metric records: %w", err)
	}

	// Measurements are returned with a denormalized copy of the parent metric.
	col := "r.date"
	if q.SortBy == "name" {
		col = "m.name"
	}
	query := `SELECT r.id, r.metric_id, r.value, r.date, r.note, r.archived, r.created_at, r.updated_at,
	                 m.id, m.name, m.unit, m.muscles, m.archived, m.created_at, m.updated_at
	          FROM metric_records r
	          JOIN metrics m ON m.id = r.metric_id` +
		f.Where() +
		fmt.Sprintf(" ORDER BY %s %s, r.id %s", col, q.SortOrder, q.SortOrder) +
		" LIMIT " + f.Placeholder(q.PageSize) + " OFFSET " + f.Placeholder(q.Offset())

	rows, err := r.db.QueryContext(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list metric records: %w", err)
	}
	defer rows.Close()

	list := []models.MetricRecord{}
	for rows.Next() {
		var rec models.MetricRecord
		var parent models.Metric
		var parentMuscles string

		err := rows.Scan(
			&rec.ID, &rec.MetricID, &rec.Value, &rec.Date, &rec.Note, &rec.Archived, &rec.CreatedAt, &rec.UpdatedAt,
			&parent.ID, &parent.Name, &parent.Unit, &parentMuscles, &parent.Archived, &parent.CreatedAt, &parent.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan metric record: %w", err)
		}

		parent.Muscles = musclesFromJSON(parentMuscles)
		rec.Metric = &parent
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list metric records: %w", err)
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
