// Package api defines the remote API client used by the sync engine and
// the interactive CLI, plus its HTTP implementation.
package api

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/models"
)

// ListOptions describes a listing request: pagination, sort and the
// filters the sync engine and the UI need. Zero values mean "not set".
type ListOptions struct {
	Page            int
	PageSize        int
	SortBy          string // "name" or "date"
	SortOrder       string // "asc" or "desc"
	IncludeArchived bool
	UpdatedAfter    string // ISO timestamp, strictly-greater filter
	DateFrom        string // records only
	DateTo          string // records only
}

// Client is the remote API surface.
//
// List responses include the server's pagination envelope so callers can
// page until the reported total is reached. ServerNow returns the last
// server-observed wall clock time, used as the sync watermark so that
// client clock skew cannot skip remote changes.
type Client interface {
	Register(ctx context.Context, username, password string) (token string, err error)
	Login(ctx context.Context, username, password string) (token string, err error)
	Health(ctx context.Context) error
	SetToken(token string)
	ServerNow() string

	CreateExercise(ctx context.Context, id string, p models.ExercisePayload) error
	UpdateExercise(ctx context.Context, id string, p models.ExercisePayload) error
	ArchiveExercise(ctx context.Context, id string) error
	ListExercises(ctx context.Context, opts ListOptions) (models.ListResponse[models.Exercise], error)

	CreateExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) error
	UpdateExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) error
	ArchiveExerciseRecord(ctx context.Context, id string) error
	ListExerciseRecords(ctx context.Context, opts ListOptions) (models.ListResponse[models.ExerciseRecord], error)

	CreateMetric(ctx context.Context, id string, p models.MetricPayload) error
	UpdateMetric(ctx context.Context, id string, p models.MetricPayload) error
	ArchiveMetric(ctx context.Context, id string) error
	ListMetrics(ctx context.Context, opts ListOptions) (models.ListResponse[models.Metric], error)

	CreateMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) error
	UpdateMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) error
	ArchiveMetricRecord(ctx context.Context, id string) error
	ListMetricRecords(ctx context.Context, opts ListOptions) (models.ListResponse[models.MetricRecord], error)
}
