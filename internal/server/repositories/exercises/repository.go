// Package exercises stores exercises and their logged records.
package exercises

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/models"
	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
)

// Repository covers both the exercise catalog and the record log. All
// methods are scoped to one user. Archive is a soft delete; Update and
// Archive return models.ErrNotFound for an unknown id, Create returns
// models.ErrAlreadyExists for a duplicate one.
type Repository interface {
	Create(ctx context.Context, userID, id string, p models.ExercisePayload) error
	Update(ctx context.Context, userID, id string, p models.ExercisePayload) error
	Archive(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.Exercise, int, error)

	CreateRecord(ctx context.Context, userID, id string, p models.ExerciseRecordPayload) error
	UpdateRecord(ctx context.Context, userID, id string, p models.ExerciseRecordPayload) error
	ArchiveRecord(ctx context.Context, userID, id string) error
	ListRecords(ctx context.Context, userID string, q srvmodels.ListQuery) ([]models.ExerciseRecord, int, error)
}
