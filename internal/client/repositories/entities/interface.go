// Package entities stores local copies of the four record collections.
// Rows hold the full record as a JSON document plus indexed columns for
// the lookups the client needs (updated_at, date, archived).
package entities

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/models"
)

// Repository is the local entity store. Writes are upserts keyed by id:
// at most one row per id exists per collection.
type Repository interface {
	PutExercises(ctx context.Context, recs []models.Exercise) error
	GetExercise(ctx context.Context, id string) (*models.Exercise, error)
	GetAllExercises(ctx context.Context) ([]models.Exercise, error)

	PutExerciseRecords(ctx context.Context, recs []models.ExerciseRecord) error
	GetExerciseRecord(ctx context.Context, id string) (*models.ExerciseRecord, error)
	GetAllExerciseRecords(ctx context.Context) ([]models.ExerciseRecord, error)
	GetExerciseRecordsByDate(ctx context.Context, from, to string) ([]models.ExerciseRecord, error)

	PutMetrics(ctx context.Context, recs []models.Metric) error
	GetMetric(ctx context.Context, id string) (*models.Metric, error)
	GetAllMetrics(ctx context.Context) ([]models.Metric, error)

	PutMetricRecords(ctx context.Context, recs []models.MetricRecord) error
	GetMetricRecord(ctx context.Context, id string) (*models.MetricRecord, error)
	GetAllMetricRecords(ctx context.Context) ([]models.MetricRecord, error)
	GetMetricRecordsByDate(ctx context.Context, from, to string) ([]models.MetricRecord, error)
}
