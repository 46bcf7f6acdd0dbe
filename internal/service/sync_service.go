package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"valid-assessment-backend/internal/metrics"
	"valid-assessment-backend/internal/model"
	"valid-assessment-backend/internal/offline"
	"valid-assessment-backend/internal/repository"
	"valid-assessment-backend/utilities"
)

// PendingQueue is the drain side of the offline queue.
type PendingQueue interface {
	Batch(ctx context.Context, n int) ([]offline.Item, error)
	Delete(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, cause error) error
	Len(ctx context.Context) (int, error)
}

type SyncService interface {
	// SyncOnce replays one batch and returns how many records were delivered.
	SyncOnce(ctx context.Context) (int, error)
	// Run replays on every tick until ctx is done.
	Run(ctx context.Context, interval time.Duration)
}

type syncService struct {
	queue     PendingQueue
	repo      repository.AssessmentRepository
	metrics   *metrics.Metrics
	batchSize int
}

func NewSyncService(queue PendingQueue, repo repository.AssessmentRepository, m *metrics.Metrics, batchSize int) SyncService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &syncService{queue: queue, repo: repo, metrics: m, batchSize: batchSize}
}

func (s *syncService) SyncOnce(ctx context.Context) (int, error) {
	items, err := s.queue.Batch(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, it := range items {
		var rec model.AssessmentRecord
		if err := json.Unmarshal(it.Payload, &rec); err != nil {
			// A payload that cannot decode will never sync.
			utilities.Error("offline item %d (%s) is corrupt, dropping: %v", it.ID, it.SessionID, err)
			if err := s.queue.Delete(ctx, it.ID); err != nil {
				return delivered, err
			}
			continue
		}
		rec.ID = 0
		if err := s.repo.Save(ctx, &rec); err != nil {
			if markErr := s.queue.MarkFailed(ctx, it.ID, err); markErr != nil {
				utilities.Warn("offline item %d: %v", it.ID, markErr)
			}
			return delivered, fmt.Errorf("replay %s: %w", it.SessionID, err)
		}
		if err := s.queue.Delete(ctx, it.ID); err != nil {
			return delivered, err
		}
		delivered++
		s.metrics.OfflineSynced.Inc()
	}
	return delivered, nil
}

func (s *syncService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SyncOnce(ctx)
			if err != nil {
				utilities.Warn("offline sync stopped after %d records: %v", n, err)
				continue
			}
			if n > 0 {
				left, _ := s.queue.Len(ctx)
				utilities.Info("offline sync delivered %d records, %d pending", n, left)
			}
		}
	}
}
