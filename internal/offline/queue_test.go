package offline

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Queue {
	t.Helper()
	q, err := Open(filepath.Join(t.TempDir(), "nested", "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func TestQueue_FIFOAndDelete(t *testing.T) {
	ctx := context.Background()
	q := openTemp(t)

	require.NoError(t, q.Enqueue(ctx, "a", []byte(`{"n":1}`)))
	require.NoError(t, q.Enqueue(ctx, "b", []byte(`{"n":2}`)))
	require.NoError(t, q.Enqueue(ctx, "c", []byte(`{"n":3}`)))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, err := q.Batch(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].SessionID)
	assert.Equal(t, "b", items[1].SessionID)
	assert.Equal(t, []byte(`{"n":1}`), items[0].Payload)
	assert.False(t, items[0].EnqueuedAt.IsZero())

	require.NoError(t, q.Delete(ctx, items[0].ID))
	items, err = q.Batch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].SessionID)
}

func TestQueue_ReenqueueReplacesPayload(t *testing.T) {
	ctx := context.Background()
	q := openTemp(t)

	require.NoError(t, q.Enqueue(ctx, "a", []byte("old")))
	items, _ := q.Batch(ctx, 1)
	require.NoError(t, q.MarkFailed(ctx, items[0].ID, errors.New("db down")))

	items, _ = q.Batch(ctx, 1)
	assert.Equal(t, 1, items[0].Attempts)
	assert.Equal(t, "db down", items[0].LastError)

	require.NoError(t, q.Enqueue(ctx, "a", []byte("new")))
	items, err := q.Batch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []byte("new"), items[0].Payload)
	assert.Equal(t, 0, items[0].Attempts)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	q, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, q.Enqueue(ctx, "a", []byte("x")))
	require.NoError(t, q.Close())

	q, err = Open(path)
	require.NoError(t, err)
	defer q.Close()
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_ReportsDriverFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	_, err := Open(filepath.Join(t.TempDir(), "q.db"))
	assert.ErrorContains(t, err, "boom")
}
