package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/metrics"
	"valid-assessment-backend/internal/model"
	"valid-assessment-backend/internal/repository"
	"valid-assessment-backend/utilities"
)

type fakeRepo struct {
	mu      sync.Mutex
	saveErr error
	records map[string]model.AssessmentRecord
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]model.AssessmentRecord{}}
}

func (r *fakeRepo) Save(_ context.Context, rec *model.AssessmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[rec.SessionID] = *rec
	return nil
}

func (r *fakeRepo) FindBySessionID(_ context.Context, id string) (*model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *fakeRepo) List(_ context.Context, f repository.RecordFilter) ([]model.AssessmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AssessmentRecord
	for _, rec := range r.records {
		if f.Persona == "" || rec.Persona == f.Persona {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) PersonaDistribution(_ context.Context, _ repository.RecordFilter) ([]repository.PersonaCount, error) {
	return nil, errors.New("not implemented in fake")
}

func (r *fakeRepo) setSaveErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	svc     AssessmentService
	repo    *fakeRepo
	queue   SnapshotQueue
	bus     *utilities.EventBus
	metrics *metrics.Metrics
	clock   *clock
	tokens  *utilities.TokenIssuer
}

func newHarness(t *testing.T, mutate func(*AssessmentOptions)) *harness {
	t.Helper()
	h := &harness{
		repo:    newFakeRepo(),
		bus:     utilities.NewEventBus(),
		metrics: metrics.MustNewMetrics(prometheus.NewRegistry()),
		clock:   newClock(),
	}
	tokens, err := utilities.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	h.tokens = tokens

	opts := AssessmentOptions{
		Bank:    assessment.DefaultBank(),
		Repo:    h.repo,
		Tokens:  tokens,
		Bus:     h.bus,
		Metrics: h.metrics,
		Timing:  assessment.DefaultTimingPolicy,
		Now:     h.clock.Now,
	}
	if mutate != nil {
		mutate(&opts)
	}
	h.queue = opts.Queue
	h.svc, err = NewAssessmentService(opts)
	require.NoError(t, err)
	return h
}

// answerAll records 5 for every core item, 3 for desirability items and the
// correct value for attention checks.
func answerAll(t *testing.T, svc AssessmentService, started *StartedSession, skip string) {
	t.Helper()
	bank := assessment.DefaultBank()
	for _, pq := range started.Questions {
		if pq.ID == skip {
			continue
		}
		q, ok := bank.Find(pq.ID)
		require.True(t, ok, pq.ID)
		v := 5
		switch {
		case q.CorrectAnswer != nil:
			v = *q.CorrectAnswer
		case q.Dimension == assessment.SocialDesirability:
			v = 3
		}
		_, err := svc.SubmitAnswer(context.Background(), started.SessionID, pq.ID, v)
		require.NoError(t, err)
	}
}
