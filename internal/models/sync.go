package models

// SyncMeta is the sync metadata embedded in every entity record.
// Timestamps are fixed-width ISO-8601 strings so they compare correctly
// as plain strings. Archived is a soft delete.
type SyncMeta struct {
	Archived  bool   `json:"archived,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// EntityKind discriminates the four record collections.
type EntityKind string

const (
	EntityExercise       EntityKind = "exercise"
	EntityExerciseRecord EntityKind = "exerciseRecord"
	EntityMetric         EntityKind = "metric"
	EntityMetricRecord   EntityKind = "metricRecord"
)

// SyncOp is a pending local mutation awaiting upload.
type SyncOp string

const (
	OpCreate  SyncOp = "create"
	OpUpdate  SyncOp = "update"
	OpArchive SyncOp = "archive"
)

// SyncPayload is a tagged union of per-kind payloads. Exactly one field is
// non-nil and it matches the owning queue item's entity kind. Archive
// operations carry an empty payload (all fields nil).
type SyncPayload struct {
	Exercise       *ExercisePayload       `json:"exercise,omitempty"`
	ExerciseRecord *ExerciseRecordPayload `json:"exerciseRecord,omitempty"`
	Metric         *MetricPayload         `json:"metric,omitempty"`
	MetricRecord   *MetricRecordPayload   `json:"metricRecord,omitempty"`
}

// Kind returns the entity kind of the populated variant, or "" when the
// payload is empty.
func (p SyncPayload) Kind() EntityKind {
	switch {
	case p.Exercise != nil:
		return EntityExercise
	case p.ExerciseRecord != nil:
		return EntityExerciseRecord
	case p.Metric != nil:
		return EntityMetric
	case p.MetricRecord != nil:
		return EntityMetricRecord
	}
	return ""
}
