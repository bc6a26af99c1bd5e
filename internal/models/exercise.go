// Package models holds the wire-level data types shared by the client and
// the server: entity records, create/update payloads, and list envelopes.
package models

// ExerciseType distinguishes repetition-based from duration-based exercises.
type ExerciseType string

const (
	ExerciseTypeReps ExerciseType = "REPS"
	ExerciseTypeTime ExerciseType = "TIME"
)

// MaxNameLength limits exercise and metric names.
const MaxNameLength = 100

// Exercise is a user-defined exercise (e.g. "Bench press").
// Muscles holds muscle group codes, free-form strings on the wire.
type Exercise struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    ExerciseType `json:"type"`
	Muscles []string     `json:"muscles"`
	SyncMeta
}

// ExerciseRecord is a single logged set or timed effort. Exactly one of
// RepsAmount / DurationMs is set, depending on Kind.
//
// Exercise is a denormalized copy of the parent, filled by the server on
// reads. Locally it is a best-effort cache and may be stale or nil.
type ExerciseRecord struct {
	ID         string       `json:"id"`
	ExerciseID string       `json:"exerciseId"`
	Exercise   *Exercise    `json:"exercise,omitempty"`
	Kind       ExerciseType `json:"kind"`
	RepsAmount *int         `json:"repsAmount,omitempty"`
	DurationMs *int64       `json:"durationMs,omitempty"`
	Date       string       `json:"date"`
	Note       string       `json:"note,omitempty"`
	Weight     *float64     `json:"weight,omitempty"`
	RPE        *float64     `json:"rpe,omitempty"`
	RestSec    *int         `json:"restSec,omitempty"`
	SyncMeta
}

// ExercisePayload is the field set sent on exercise create and update.
type ExercisePayload struct {
	Name    string       `json:"name"`
	Type    ExerciseType `json:"type"`
	Muscles []string     `json:"muscles"`
}

// ExerciseRecordPayload is the field set sent on exercise record create
// and update.
type ExerciseRecordPayload struct {
	ExerciseID string       `json:"exerciseId"`
	Kind       ExerciseType `json:"kind"`
	RepsAmount *int         `json:"repsAmount,omitempty"`
	DurationMs *int64       `json:"durationMs,omitempty"`
	Date       string       `json:"date"`
	Note       string       `json:"note,omitempty"`
	Weight     *float64     `json:"weight,omitempty"`
	RPE        *float64     `json:"rpe,omitempty"`
	RestSec    *int         `json:"restSec,omitempty"`
}
