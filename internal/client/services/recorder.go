// Package services holds the client-side application logic: the mutation
// recorder, the sync engine, the sync lifecycle controller, the session
// store and the connectivity watcher.
package services

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/client/notify"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

// Recorder is the single path for local writes. Every mutation writes the
// merged record to the local store, queues the change for upload and
// publishes a change notification. Mutations return once the local write
// is durable; the upload happens in the background.
type Recorder struct {
	entities entities.Repository
	outbox   outbox.Repository
	bus      *notify.Bus
	log      logging.Logger

	// OnMutation, when set, is invoked after each successful mutation to
	// kick a background queue sync.
	OnMutation func()
}

func NewRecorder(ents entities.Repository, box outbox.Repository, bus *notify.Bus, log logging.Logger) *Recorder {
	return &Recorder{entities: ents, outbox: box, bus: bus, log: log}
}

func (r *Recorder) finish(kind models.EntityKind) {
	r.bus.Publish(notify.Event{Kind: kind})
	if r.OnMutation != nil {
		r.OnMutation()
	}
}

// opFor picks the queued operation: an archived record keeps traveling as
// an archive, a known record as an update and a new one as a create.
func opFor(archived, existed bool) models.SyncOp {
	switch {
	case archived:
		return models.OpArchive
	case existed:
		return models.OpUpdate
	default:
		return models.OpCreate
	}
}

// UpsertExercise creates or updates an exercise. An empty id means a new
// record with a client-generated id.
func (r *Recorder) UpsertExercise(ctx context.Context, id string, p models.ExercisePayload) (*models.Exercise, error) {
	if id == "" {
		id = common.NewID()
	}
	now := common.NowISO()

	existing, err := r.entities.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := models.Exercise{ID: id}
	if existing != nil {
		rec = *existing
	}
	rec.Name = p.Name
	rec.Type = p.Type
	rec.Muscles = p.Muscles
	if rec.CreatedAt == "" {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := r.entities.PutExercises(ctx, []models.Exercise{rec}); err != nil {
		return nil, err
	}

	payload := models.SyncPayload{}
	op := opFor(rec.Archived, existing != nil)
	if op != models.OpArchive {
		payload.Exercise = &p
	}
	if err := r.outbox.Enqueue(ctx, models.EntityExercise, op, id, payload); err != nil {
		return nil, err
	}

	r.finish(models.EntityExercise)
	return &rec, nil
}

// ArchiveExercise soft-deletes an exercise. Unknown ids are a no-op.
func (r *Recorder) ArchiveExercise(ctx context.Context, id string) error {
	existing, err := r.entities.GetExercise(ctx, id)
	if err != nil || existing == nil {
		return err
	}
	existing.Archived = true
	existing.UpdatedAt = common.NowISO()

	if err := r.entities.PutExercises(ctx, []models.Exercise{*existing}); err != nil {
		return err
	}
	if err := r.outbox.Enqueue(ctx, models.EntityExercise, models.OpArchive, id, models.SyncPayload{}); err != nil {
		return err
	}
	r.finish(models.EntityExercise)
	return nil
}

func (r *Recorder) UpsertExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) (*models.ExerciseRecord, error) {
	if id == "" {
		id = common.NewID()
	}
	now := common.NowISO()

	existing, err := r.entities.GetExerciseRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	// starting from the existing copy keeps the denormalized parent until
	// the next pull refreshes it
	rec := models.ExerciseRecord{ID: id}
	if existing != nil {
		rec = *existing
	}
	rec.ExerciseID = p.ExerciseID
	rec.Kind = p.Kind
	rec.RepsAmount = p.RepsAmount
	rec.DurationMs = p.DurationMs
	rec.Date = p.Date
	rec.Note = p.Note
	rec.Weight = p.Weight
	rec.RPE = p.RPE
	rec.RestSec = p.RestSec
	if rec.CreatedAt == "" {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := r.entities.PutExerciseRecords(ctx, []models.ExerciseRecord{rec}); err != nil {
		return nil, err
	}

	payload := models.SyncPayload{}
	op := opFor(rec.Archived, existing != nil)
	if op != models.OpArchive {
		payload.ExerciseRecord = &p
	}
	if err := r.outbox.Enqueue(ctx, models.EntityExerciseRecord, op, id, payload); err != nil {
		return nil, err
	}

	r.finish(models.EntityExerciseRecord)
	return &rec, nil
}

func (r *Recorder) ArchiveExerciseRecord(ctx context.Context, id string) error {
	existing, err := r.entities.GetExerciseRecord(ctx, id)
	if err != nil || existing == nil {
		return err
	}
	existing.Archived = true
	existing.UpdatedAt = common.NowISO()

	if err := r.entities.PutExerciseRecords(ctx, []models.ExerciseRecord{*existing}); err != nil {
		return err
	}
	if err := r.outbox.Enqueue(ctx, models.EntityExerciseRecord, models.OpArchive, id, models.SyncPayload{}); err != nil {
		return err
	}
	r.finish(models.EntityExerciseRecord)
	return nil
}

func (r *Recorder) UpsertMetric(ctx context.Context, id string, p models.MetricPayload) (*models.Metric, error) {
	if id == "" {
		id = common.NewID()
	}
	now := common.NowISO()

	existing, err := r.entities.GetMetric(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := models.Metric{ID: id}
	if existing != nil {
		rec = *existing
	}
	rec.Name = p.Name
	rec.Unit = p.Unit
	rec.Muscles = p.Muscles
	if rec.CreatedAt == "" {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := r.entities.PutMetrics(ctx, []models.Metric{rec}); err != nil {
		return nil, err
	}

	payload := models.SyncPayload{}
	op := opFor(rec.Archived, existing != nil)
	if op != models.OpArchive {
		payload.Metric = &p
	}
	if err := r.outbox.Enqueue(ctx, models.EntityMetric, op, id, payload); err != nil {
		return nil, err
	}

	r.finish(models.EntityMetric)
	return &rec, nil
}

func (r *Recorder) ArchiveMetric(ctx context.Context, id string) error {
	existing, err := r.entities.GetMetric(ctx, id)
	if err != nil || existing == nil {
		return err
	}
	existing.Archived = true
	existing.UpdatedAt = common.NowISO()

	if err := r.entities.PutMetrics(ctx, []models.Metric{*existing}); err != nil {
		return err
	}
	if err := r.outbox.Enqueue(ctx, models.EntityMetric, models.OpArchive, id, models.SyncPayload{}); err != nil {
		return err
	}
	r.finish(models.EntityMetric)
	return nil
}

func (r *Recorder) UpsertMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) (*models.MetricRecord, error) {
	if id == "" {
		id = common.NewID()
	}
	now := common.NowISO()

	existing, err := r.entities.GetMetricRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := models.MetricRecord{ID: id}
	if existing != nil {
		rec = *existing
	}
	rec.MetricID = p.MetricID
	rec.Value = p.Value
	rec.Date = p.Date
	rec.Note = p.Note
	if rec.CreatedAt == "" {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := r.entities.PutMetricRecords(ctx, []models.MetricRecord{rec}); err != nil {
		return nil, err
	}

	payload := models.SyncPayload{}
	op := opFor(rec.Archived, existing != nil)
	if op != models.OpArchive {
		payload.MetricRecord = &p
	}
	if err := r.outbox.Enqueue(ctx, models.EntityMetricRecord, op, id, payload); err != nil {
		return nil, err
	}

	r.finish(models.EntityMetricRecord)
	return &rec, nil
}

func (r *Recorder) ArchiveMetricRecord(ctx context.Context, id string) error {
	existing, err := r.entities.GetMetricRecord(ctx, id)
	if err != nil || existing == nil {
		return err
	}
	existing.Archived = true
	existing.UpdatedAt = common.NowISO()

	if err := r.entities.PutMetricRecords(ctx, []models.MetricRecord{*existing}); err != nil {
		return err
	}
	if err := r.outbox.Enqueue(ctx, models.EntityMetricRecord, models.OpArchive, id, models.SyncPayload{}); err != nil {
		return err
	}
	r.finish(models.EntityMetricRecord)
	return nil
}
