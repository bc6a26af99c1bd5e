package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	return db
}

func TestSetGetDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	got, err := r.Get(ctx, KeyLastSync)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, r.Set(ctx, KeyLastSync, "2026-01-01T00:00:00.000Z"))
	got, err = r.Get(ctx, KeyLastSync)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", got)

	// overwrite
	require.NoError(t, r.Set(ctx, KeyLastSync, "2026-02-01T00:00:00.000Z"))
	got, err = r.Get(ctx, KeyLastSync)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01T00:00:00.000Z", got)

	require.NoError(t, r.Delete(ctx, KeyLastSync))
	got, err = r.Get(ctx, KeyLastSync)
	require.NoError(t, err)
	assert.Empty(t, got)
}
