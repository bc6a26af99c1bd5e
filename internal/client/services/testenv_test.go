package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/notify"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/models"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeAPI records every call and pops scripted errors per action. List
// methods serve pre-seeded pages in order.
type fakeAPI struct {
	mu    sync.Mutex
	token string
	calls []string
	errs  map[string][]error // action -> errors popped per call

	exercisePages       [][]models.Exercise
	metricPages         [][]models.Metric
	exerciseRecordPages [][]models.ExerciseRecord
	metricRecordPages   [][]models.MetricRecord

	listOpts  map[string][]api.ListOptions
	serverNow string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		errs:      map[string][]error{},
		listOpts:  map[string][]api.ListOptions{},
		serverNow: "2026-06-01T12:00:00.000Z",
	}
}

func (f *fakeAPI) recordOpts(entity string, opts api.ListOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpts[entity] = append(f.listOpts[entity], opts)
}

// failNext scripts the error returned by the next call to action (e.g.
// "create exercise"); queue more errors by calling it repeatedly.
func (f *fakeAPI) failNext(action string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[action] = append(f.errs[action], err)
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) do(action, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if detail != "" {
		f.calls = append(f.calls, action+" "+detail)
	} else {
		f.calls = append(f.calls, action)
	}
	if q := f.errs[action]; len(q) > 0 {
		err := q[0]
		f.errs[action] = q[1:]
		return err
	}
	return nil
}

func (f *fakeAPI) Register(ctx context.Context, username, password string) (string, error) {
	return "reg-token", f.do("register", username)
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (string, error) {
	return "login-token", f.do("login", username)
}

func (f *fakeAPI) Health(ctx context.Context) error { return f.do("health", "") }

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) ServerNow() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.serverNow
}

func (f *fakeAPI) CreateExercise(ctx context.Context, id string, p models.ExercisePayload) error {
	return f.do("create exercise", id)
}

func (f *fakeAPI) UpdateExercise(ctx context.Context, id string, p models.ExercisePayload) error {
	return f.do("update exercise", id)
}

func (f *fakeAPI) ArchiveExercise(ctx context.Context, id string) error {
	return f.do("archive exercise", id)
}

func (f *fakeAPI) ListExercises(ctx context.Context, opts api.ListOptions) (models.ListResponse[models.Exercise], error) {
	f.recordOpts("exercise", opts)
	err := f.do("list exercises", fmt.Sprintf("page %d", opts.Page))
	return popPage(&f.mu, &f.exercisePages, opts), err
}

func (f *fakeAPI) CreateExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) error {
	return f.do("create exerciseRecord", id)
}

func (f *fakeAPI) UpdateExerciseRecord(ctx context.Context, id string, p models.ExerciseRecordPayload) error {
	return f.do("update exerciseRecord", id)
}

func (f *fakeAPI) ArchiveExerciseRecord(ctx context.Context, id string) error {
	return f.do("archive exerciseRecord", id)
}

func (f *fakeAPI) ListExerciseRecords(ctx context.Context, opts api.ListOptions) (models.ListResponse[models.ExerciseRecord], error) {
	f.recordOpts("exerciseRecord", opts)
	err := f.do("list exerciseRecords", fmt.Sprintf("page %d", opts.Page))
	return popPage(&f.mu, &f.exerciseRecordPages, opts), err
}

func (f *fakeAPI) CreateMetric(ctx context.Context, id string, p models.MetricPayload) error {
	return f.do("create metric", id)
}

func (f *fakeAPI) UpdateMetric(ctx context.Context, id string, p models.MetricPayload) error {
	return f.do("update metric", id)
}

func (f *fakeAPI) ArchiveMetric(ctx context.Context, id string) error {
	return f.do("archive metric", id)
}

func (f *fakeAPI) ListMetrics(ctx context.Context, opts api.ListOptions) (models.ListResponse[models.Metric], error) {
	f.recordOpts("metric", opts)
	err := f.do("list metrics", fmt.Sprintf("page %d", opts.Page))
	return popPage(&f.mu, &f.metricPages, opts), err
}

func (f *fakeAPI) CreateMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) error {
	return f.do("create metricRecord", id)
}

func (f *fakeAPI) UpdateMetricRecord(ctx context.Context, id string, p models.MetricRecordPayload) error {
	return f.do("update metricRecord", id)
}

func (f *fakeAPI) ArchiveMetricRecord(ctx context.Context, id string) error {
	return f.do("archive metricRecord", id)
}

func (f *fakeAPI) ListMetricRecords(ctx context.Context, opts api.ListOptions) (models.ListResponse[models.MetricRecord], error) {
	f.recordOpts("metricRecord", opts)
	err := f.do("list metricRecords", fmt.Sprintf("page %d", opts.Page))
	return popPage(&f.mu, &f.metricRecordPages, opts), err
}

func popPage[T any](mu *sync.Mutex, pages *[][]T, opts api.ListOptions) models.ListResponse[T] {
	mu.Lock()
	defer mu.Unlock()
	resp := models.ListResponse[T]{
		Pagination: models.Pagination{Page: opts.Page, PageSize: opts.PageSize},
	}
	if len(*pages) > 0 {
		resp.List = (*pages)[0]
		*pages = (*pages)[1:]
	}
	return resp
}

var _ api.Client = (*fakeAPI)(nil)

// env bundles a full client wired against the fake API and an in-memory
// database.
type env struct {
	db       *sql.DB
	api      *fakeAPI
	entities *entities.SQLiteRepository
	outbox   *outbox.SQLiteRepository
	meta     *metadata.SQLiteRepository
	bus      *notify.Bus
	engine   *Engine
	recorder *Recorder
	online   bool
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ddl := []string{
		`CREATE TABLE exercises (id TEXT PRIMARY KEY, doc TEXT NOT NULL, updated_at TEXT NOT NULL DEFAULT '', date TEXT NOT NULL DEFAULT '', archived INTEGER NOT NULL DEFAULT 0);`,
		`CREATE TABLE exercise_records (id TEXT PRIMARY KEY, doc TEXT NOT NULL, updated_at TEXT NOT NULL DEFAULT '', date TEXT NOT NULL DEFAULT '', archived INTEGER NOT NULL DEFAULT 0);`,
		`CREATE TABLE metrics (id TEXT PRIMARY KEY, doc TEXT NOT NULL, updated_at TEXT NOT NULL DEFAULT '', date TEXT NOT NULL DEFAULT '', archived INTEGER NOT NULL DEFAULT 0);`,
		`CREATE TABLE metric_records (id TEXT PRIMARY KEY, doc TEXT NOT NULL, updated_at TEXT NOT NULL DEFAULT '', date TEXT NOT NULL DEFAULT '', archived INTEGER NOT NULL DEFAULT 0);`,
		`CREATE TABLE to_sync (key TEXT PRIMARY KEY, entity TEXT NOT NULL, op TEXT NOT NULL, record_id TEXT NOT NULL, payload TEXT NOT NULL, created_at TEXT NOT NULL, updated_at TEXT NOT NULL);`,
		`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);`,
	}
	for _, q := range ddl {
		_, err = db.Exec(q)
		require.NoError(t, err)
	}

	e := &env{
		db:       db,
		api:      newFakeAPI(),
		entities: entities.NewSQLiteRepository(db),
		outbox:   outbox.NewSQLiteRepository(db),
		meta:     metadata.NewSQLiteRepository(db),
		bus:      notify.NewBus(),
		online:   true,
	}
	log := testLogger()
	e.engine = NewEngine(e.api, e.entities, e.outbox, e.meta, e.bus, func() bool { return e.online }, log)
	e.recorder = NewRecorder(e.entities, e.outbox, e.bus, log)
	return e
}

func (e *env) authenticate(t *testing.T) {
	t.Helper()
	require.NoError(t, e.meta.Set(context.Background(), metadata.KeyAuthToken, "test-token"))
}
