package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fittrack/internal/models"
)

const (
	exerciseID = "aaaaaaaaaaaaaaaaaaaaaaaa"
	recordID   = "bbbbbbbbbbbbbbbbbbbbbbbb"
	metricID   = "cccccccccccccccccccccccc"
)

func TestHealth(t *testing.T) {
	e := newEnv(t)

	var ok okResponse
	status := e.request(t, http.MethodGet, "/health", "", nil, &ok)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, ok.OK)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	e := newEnv(t)

	e.registerUser(t, "dana")
	status := e.request(t, http.MethodPost, "/auth/register", "",
		credentialsRequest{Username: "dana", Password: "other"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRegister_MissingFields(t *testing.T) {
	e := newEnv(t)

	status := e.request(t, http.MethodPost, "/auth/register", "",
		credentialsRequest{Username: "dana"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t, "dana")

	var tok tokenResponse
	status := e.request(t, http.MethodPost, "/auth/login", "",
		credentialsRequest{Username: "dana", Password: "pw"}, &tok)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, tok.Token)

	status = e.request(t, http.MethodPost, "/auth/login", "",
		credentialsRequest{Username: "dana", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = e.request(t, http.MethodPost, "/auth/login", "",
		credentialsRequest{Username: "nobody", Password: "pw"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusUnauthorized, e.request(t, http.MethodGet, "/exercises", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, e.request(t, http.MethodGet, "/metrics/records", "garbage", nil, nil))
}

func TestExerciseLifecycle(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodPost, "/exercises", tok, createExerciseRequest{
		ID:              exerciseID,
		ExercisePayload: models.ExercisePayload{Name: "Bench press", Type: models.ExerciseTypeReps, Muscles: []string{"Chest"}},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	// same id again is a client error
	status = e.request(t, http.MethodPost, "/exercises", tok, createExerciseRequest{
		ID:              exerciseID,
		ExercisePayload: models.ExercisePayload{Name: "Bench press", Type: models.ExerciseTypeReps},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = e.request(t, http.MethodPut, "/exercises/"+exerciseID, tok,
		models.ExercisePayload{Name: "Incline bench", Type: models.ExerciseTypeReps}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Incline bench", e.exercises.exercises[exerciseID].doc.Name)

	status = e.request(t, http.MethodDelete, "/exercises/"+exerciseID, tok, nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, e.exercises.exercises[exerciseID].doc.Archived)
}

func TestExercise_UnknownIDIs404(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodPut, "/exercises/"+exerciseID, tok,
		models.ExercisePayload{Name: "x", Type: models.ExerciseTypeReps}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = e.request(t, http.MethodDelete, "/exercises/"+exerciseID, tok, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestExercise_Validation(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	// malformed path id
	status := e.request(t, http.MethodPut, "/exercises/short-id", tok,
		models.ExercisePayload{Name: "x", Type: models.ExerciseTypeReps}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// empty name
	status = e.request(t, http.MethodPost, "/exercises", tok, createExerciseRequest{
		ID:              exerciseID,
		ExercisePayload: models.ExercisePayload{Type: models.ExerciseTypeReps},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// bad type
	status = e.request(t, http.MethodPost, "/exercises", tok, createExerciseRequest{
		ID:              exerciseID,
		ExercisePayload: models.ExercisePayload{Name: "x", Type: "WRONG"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateExercise_GeneratesIDWhenMissing(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodPost, "/exercises", tok, createExerciseRequest{
		ExercisePayload: models.ExercisePayload{Name: "Squat", Type: models.ExerciseTypeReps},
	}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, e.exercises.exercises, 1)
}

func TestListExercises_EnvelopeAndQuery(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodPost, "/exercises", tok, createExerciseRequest{
		ID:              exerciseID,
		ExercisePayload: models.ExercisePayload{Name: "Squat", Type: models.ExerciseTypeReps},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var resp models.ListResponse[models.Exercise]
	status = e.request(t, http.MethodGet,
		"/exercises?page=2&pageSize=50&sortBy=name&sortOrder=asc&archived=true&updatedAfter=2026-01-01T00:00:00.000Z",
		tok, nil, &resp)
	require.Equal(t, http.StatusOK, status)

	q := e.exercises.lastQuery
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 50, q.PageSize)
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
	assert.True(t, q.IncludeArchived)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", q.UpdatedAfter)

	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 50, resp.Pagination.PageSize)
	assert.Equal(t, 1, resp.Pagination.Total)
	assert.Len(t, resp.List, 1)
}

func TestListExercises_DefaultsApplied(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodGet, "/exercises", tok, nil, nil)
	require.Equal(t, http.StatusOK, status)

	q := e.exercises.lastQuery
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
	assert.False(t, q.IncludeArchived)
}

func TestListExercises_InvalidParams(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodGet, "/exercises?updatedAfter=yesterday", tok, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = e.request(t, http.MethodGet, "/exercises?page=abc", tok, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExerciseRecords(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	reps := 8
	status := e.request(t, http.MethodPost, "/exercises/records", tok, createExerciseRecordRequest{
		ID: recordID,
		ExerciseRecordPayload: models.ExerciseRecordPayload{
			ExerciseID: exerciseID,
			Kind:       models.ExerciseTypeReps,
			RepsAmount: &reps,
			Date:       "2026-03-01T10:00:00.000Z",
		},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	// record list defaults to date sort
	var resp models.ListResponse[models.ExerciseRecord]
	status = e.request(t, http.MethodGet, "/exercises/records?dateFrom=2026-03-01T00:00:00.000Z", tok, nil, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "date", e.exercises.lastQuery.SortBy)
	assert.Equal(t, "2026-03-01T00:00:00.000Z", e.exercises.lastQuery.DateFrom)
	assert.Len(t, resp.List, 1)

	status = e.request(t, http.MethodDelete, "/exercises/records/"+recordID, tok, nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, e.exercises.records[recordID].doc.Archived)
}

func TestExerciseRecord_Validation(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodPost, "/exercises/records", tok, createExerciseRecordRequest{
		ID: recordID,
		ExerciseRecordPayload: models.ExerciseRecordPayload{
			ExerciseID: "nope",
			Kind:       models.ExerciseTypeReps,
			Date:       "2026-03-01T10:00:00.000Z",
		},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = e.request(t, http.MethodPost, "/exercises/records", tok, createExerciseRecordRequest{
		ID: recordID,
		ExerciseRecordPayload: models.ExerciseRecordPayload{
			ExerciseID: exerciseID,
			Kind:       models.ExerciseTypeReps,
			Date:       "not-a-date",
		},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMetricsLifecycle(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	status := e.request(t, http.MethodPost, "/metrics", tok, createMetricRequest{
		ID:            metricID,
		MetricPayload: models.MetricPayload{Name: "Body weight", Unit: models.UnitKg},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	status = e.request(t, http.MethodPut, "/metrics/"+metricID, tok,
		models.MetricPayload{Name: "Weight", Unit: models.UnitKg}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Weight", e.metrics.metrics[metricID].doc.Name)

	status = e.request(t, http.MethodPost, "/metrics/records", tok, createMetricRecordRequest{
		ID: recordID,
		MetricRecordPayload: models.MetricRecordPayload{
			MetricID: metricID, Value: 81.5, Date: "2026-03-01T08:00:00.000Z",
		},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var resp models.ListResponse[models.MetricRecord]
	status = e.request(t, http.MethodGet, "/metrics/records", tok, nil, &resp)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, resp.List, 1)
	assert.Equal(t, 81.5, resp.List[0].Value)

	status = e.request(t, http.MethodDelete, "/metrics/"+metricID, tok, nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, e.metrics.metrics[metricID].doc.Archived)
}

func TestMetric_Validation(t *testing.T) {
	e := newEnv(t)
	tok := e.registerUser(t, "dana")

	// missing unit
	status := e.request(t, http.MethodPost, "/metrics", tok, createMetricRequest{
		ID:            metricID,
		MetricPayload: models.MetricPayload{Name: "Body weight"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// bad metric id on record
	status = e.request(t, http.MethodPost, "/metrics/records", tok, createMetricRecordRequest{
		ID:                  recordID,
		MetricRecordPayload: models.MetricRecordPayload{MetricID: "bad", Value: 1, Date: "2026-03-01T08:00:00.000Z"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUsersAreIsolated(t *testing.T) {
	e := newEnv(t)
	tokA := e.registerUser(t, "alice")
	tokB := e.registerUser(t, "bob")

	status := e.request(t, http.MethodPost, "/exercises", tokA, createExerciseRequest{
		ID:              exerciseID,
		ExercisePayload: models.ExercisePayload{Name: "Squat", Type: models.ExerciseTypeReps},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	// another user cannot touch it
	status = e.request(t, http.MethodDelete, "/exercises/"+exerciseID, tokB, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var resp models.ListResponse[models.Exercise]
	status = e.request(t, http.MethodGet, "/exercises", tokB, nil, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.List)
}
