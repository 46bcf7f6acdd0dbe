package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valid-assessment-backend/internal/metrics"
	"valid-assessment-backend/internal/model"
	"valid-assessment-backend/internal/offline"
)

func TestSyncOnce_StopsOnFirstFailureAndDropsCorrupt(t *testing.T) {
	ctx := context.Background()
	q, err := offline.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	rec, err := model.NewAssessmentRecord(sampleEvent().Snapshot, sampleEvent().Verdict)
	require.NoError(t, err)
	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	require.NoError(t, q.Enqueue(ctx, "corrupt", []byte("{not json")))
	require.NoError(t, q.Enqueue(ctx, "sess-42", payload))

	repo := newFakeRepo()
	repo.setSaveErr(errors.New("db down"))
	syncer := NewSyncService(q, repo, metrics.MustNewMetrics(prometheus.NewRegistry()), 10)

	n, err := syncer.SyncOnce(ctx)
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, 0, n)

	items, err := q.Batch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sess-42", items[0].SessionID)
	assert.Equal(t, 1, items[0].Attempts)

	repo.setSaveErr(nil)
	n, err = syncer.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	saved, err := repo.FindBySessionID(ctx, "sess-42")
	require.NoError(t, err)
	assert.Equal(t, "Verity", saved.Persona)
}
