package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/models"
	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
)

type fakeUsers struct {
	byName map[string]*srvmodels.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*srvmodels.User{}}
}

func (f *fakeUsers) Create(_ context.Context, username, passwordHash string) (*srvmodels.User, error) {
	if _, ok := f.byName[username]; ok {
		return nil, srvmodels.ErrAlreadyExists
	}
	u := &srvmodels.User{ID: "uid-" + username, Username: username, PasswordHash: passwordHash}
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*srvmodels.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, srvmodels.ErrNotFound
	}
	return u, nil
}

type owned[T any] struct {
	owner string
	doc   T
}

// fakeExercises keeps everything in maps and records the last list query so
// tests can assert on parameter parsing.
type fakeExercises struct {
	exercises map[string]owned[models.Exercise]
	records   map[string]owned[models.ExerciseRecord]
	lastQuery srvmodels.ListQuery
}

func newFakeExercises() *fakeExercises {
	return &fakeExercises{
		exercises: map[string]owned[models.Exercise]{},
		records:   map[string]owned[models.ExerciseRecord]{},
	}
}

func (f *fakeExercises) Create(_ context.Context, userID, id string, p models.ExercisePayload) error {
	if _, ok := f.exercises[id]; ok {
		return srvmodels.ErrAlreadyExists
	}
	f.exercises[id] = owned[models.Exercise]{owner: userID, doc: models.Exercise{
		ID: id, Name: p.Name, Type: p.Type, Muscles: p.Muscles,
	}}
	return nil
}

func (f *fakeExercises) Update(_ context.Context, userID, id string, p models.ExercisePayload) error {
	cur, ok := f.exercises[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Name, cur.doc.Type, cur.doc.Muscles = p.Name, p.Type, p.Muscles
	f.exercises[id] = cur
	return nil
}

func (f *fakeExercises) Archive(_ context.Context, userID, id string) error {
	cur, ok := f.exercises[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Archived = true
	f.exercises[id] = cur
	return nil
}

func (f *fakeExercises) List(_ context.Context, userID string, q srvmodels.ListQuery) ([]models.Exercise, int, error) {
	f.lastQuery = q
	list := []models.Exercise{}
	for _, o := range f.exercises {
		if o.owner == userID && (q.IncludeArchived || !o.doc.Archived) {
			list = append(list, o.doc)
		}
	}
	return list, len(list), nil
}

func (f *fakeExercises) CreateRecord(_ context.Context, userID, id string, p models.ExerciseRecordPayload) error {
	if _, ok := f.records[id]; ok {
		return srvmodels.ErrAlreadyExists
	}
	f.records[id] = owned[models.ExerciseRecord]{owner: userID, doc: models.ExerciseRecord{
		ID: id, ExerciseID: p.ExerciseID, Kind: p.Kind, RepsAmount: p.RepsAmount,
		DurationMs: p.DurationMs, Date: p.Date, Note: p.Note,
	}}
	return nil
}

func (f *fakeExercises) UpdateRecord(_ context.Context, userID, id string, p models.ExerciseRecordPayload) error {
	cur, ok := f.records[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Date, cur.doc.Note = p.Date, p.Note
	f.records[id] = cur
	return nil
}

func (f *fakeExercises) ArchiveRecord(_ context.Context, userID, id string) error {
	cur, ok := f.records[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Archived = true
	f.records[id] = cur
	return nil
}

func (f *fakeExercises) ListRecords(_ context.Context, userID string, q srvmodels.ListQuery) ([]models.ExerciseRecord, int, error) {
	f.lastQuery = q
	list := []models.ExerciseRecord{}
	for _, o := range f.records {
		if o.owner == userID && (q.IncludeArchived || !o.doc.Archived) {
			list = append(list, o.doc)
		}
	}
	return list, len(list), nil
}

type fakeMetrics struct {
	metrics   map[string]owned[models.Metric]
	records   map[string]owned[models.MetricRecord]
	lastQuery srvmodels.ListQuery
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		metrics: map[string]owned[models.Metric]{},
		records: map[string]owned[models.MetricRecord]{},
	}
}

func (f *fakeMetrics) Create(_ context.Context, userID, id string, p models.MetricPayload) error {
	if _, ok := f.metrics[id]; ok {
		return srvmodels.ErrAlreadyExists
	}
	f.metrics[id] = owned[models.Metric]{owner: userID, doc: models.Metric{ID: id, Name: p.Name, Unit: p.Unit}}
	return nil
}

func (f *fakeMetrics) Update(_ context.Context, userID, id string, p models.MetricPayload) error {
	cur, ok := f.metrics[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Name, cur.doc.Unit = p.Name, p.Unit
	f.metrics[id] = cur
	return nil
}

func (f *fakeMetrics) Archive(_ context.Context, userID, id string) error {
	cur, ok := f.metrics[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Archived = true
	f.metrics[id] = cur
	return nil
}

func (f *fakeMetrics) List(_ context.Context, userID string, q srvmodels.ListQuery) ([]models.Metric, int, error) {
	f.lastQuery = q
	list := []models.Metric{}
	for _, o := range f.metrics {
		if o.owner == userID && (q.IncludeArchived || !o.doc.Archived) {
			list = append(list, o.doc)
		}
	}
	return list, len(list), nil
}

func (f *fakeMetrics) CreateRecord(_ context.Context, userID, id string, p models.MetricRecordPayload) error {
	if _, ok := f.records[id]; ok {
		return srvmodels.ErrAlreadyExists
	}
	f.records[id] = owned[models.MetricRecord]{owner: userID, doc: models.MetricRecord{
		ID: id, MetricID: p.MetricID, Value: p.Value, Date: p.Date, Note: p.Note,
	}}
	return nil
}

func (f *fakeMetrics) UpdateRecord(_ context.Context, userID, id string, p models.MetricRecordPayload) error {
	cur, ok := f.records[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Value, cur.doc.Date, cur.doc.Note = p.Value, p.Date, p.Note
	f.records[id] = cur
	return nil
}

func (f *fakeMetrics) ArchiveRecord(_ context.Context, userID, id string) error {
	cur, ok := f.records[id]
	if !ok || cur.owner != userID {
		return srvmodels.ErrNotFound
	}
	cur.doc.Archived = true
	f.records[id] = cur
	return nil
}

func (f *fakeMetrics) ListRecords(_ context.Context, userID string, q srvmodels.ListQuery) ([]models.MetricRecord, int, error) {
	f.lastQuery = q
	list := []models.MetricRecord{}
	for _, o := range f.records {
		if o.owner == userID && (q.IncludeArchived || !o.doc.Archived) {
			list = append(list, o.doc)
		}
	}
	return list, len(list), nil
}

type env struct {
	api       *API
	server    *httptest.Server
	users     *fakeUsers
	exercises *fakeExercises
	metrics   *fakeMetrics
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		users:     newFakeUsers(),
		exercises: newFakeExercises(),
		metrics:   newFakeMetrics(),
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.api = New(e.users, e.exercises, e.metrics, []byte("test-secret"), time.Hour, log)
	e.server = httptest.NewServer(e.api.Router())
	t.Cleanup(e.server.Close)
	return e
}

// request performs one JSON request and decodes the body into out when it is
// non-nil.
func (e *env) request(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *env) registerUser(t *testing.T, username string) string {
	t.Helper()
	var tok tokenResponse
	status := e.request(t, http.MethodPost, "/auth/register", "",
		credentialsRequest{Username: username, Password: "pw"}, &tok)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, tok.Token)
	return tok.Token
}
