// Package metrics stores metric definitions and their measurements.
package metrics

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/models"
	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
)

// Repository covers both the metric catalog and the measurement log. All
// methods are scoped to one user. Archive is a soft delete; Update and
// Archive return models.ErrNotFound for an unknown id, Create returns
// models.ErrAlreadyExists for a duplicate one.
type Repository interface {
	Create(ctx context.Context, userID, id string, p models.MetricPayload) error
	Update(ctx context.Context, userID, id string, p models.MetricPayload) error
	Archive(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.Metric, int, error)

	CreateRecord(ctx context.Context, userID, id string, p models.MetricRecordPayload) error
	UpdateRecord(ctx context.Context, userID, id string, p models.MetricRecordPayload) error
	ArchiveRecord(ctx context.Context, userID, id string) error
	ListRecords(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.MetricRecord, int, error)
}
