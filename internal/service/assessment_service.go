package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/metrics"
	"valid-assessment-backend/internal/model"
	"valid-assessment-backend/internal/repository"
	"valid-assessment-backend/utilities"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrNotCompleted    = errors.New("assessment not completed")
	ErrNoDatabase      = errors.New("hosted database is not configured")
)

// SnapshotQueue is the local fallback used when the hosted database rejects
// or cannot take a record. *offline.Queue implements it.
type SnapshotQueue interface {
	Enqueue(ctx context.Context, sessionID string, payload []byte) error
}

// PresentedQuestion is what a respondent sees. Dimensions and correct answers
// stay on the server.
type PresentedQuestion struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// StartedSession is returned when a respondent begins.
type StartedSession struct {
	SessionID string              `json:"session_id"`
	Token     string              `json:"token,omitempty"`
	Questions []PresentedQuestion `json:"questions"`
	StartedAt time.Time           `json:"started_at"`
}

// Progress summarizes how far a session has got.
type Progress struct {
	SessionID string   `json:"session_id"`
	Answered  int      `json:"answered"`
	Total     int      `json:"total"`
	Missing   []string `json:"missing"`
	Completed bool     `json:"completed"`
}

// Outcome is the finalized result together with its quality verdict.
type Outcome struct {
	SessionID string                       `json:"session_id"`
	Scores    assessment.Scores            `json:"scores"`
	Quality   assessment.QualityReport     `json:"quality"`
	Verdict   assessment.QualityAssessment `json:"verdict"`
	Persona   assessment.PersonaResult     `json:"persona"`
	Persisted bool                         `json:"persisted"`
}

// CompletionEvent is published on utilities.EventAssessmentCompleted.
type CompletionEvent struct {
	Snapshot assessment.Snapshot
	Verdict  assessment.QualityAssessment
}

type AssessmentService interface {
	StartSession(ctx context.Context, demo assessment.Demographics) (*StartedSession, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID string, value int) (*Progress, error)
	Progress(sessionID string) (*Progress, error)
	Finalize(ctx context.Context, sessionID string) (*Outcome, error)
	ContextScores(sessionID, scenario string) (assessment.Scores, error)
	Completed(ctx context.Context, sessionID string) (*CompletionEvent, error)
	ListRecords(ctx context.Context, f repository.RecordFilter) ([]assessment.Snapshot, error)
	PersonaDistribution(ctx context.Context, f repository.RecordFilter) ([]repository.PersonaCount, error)
}

// AssessmentOptions wires the collaborators of the assessment service. Repo,
// Queue, Tokens and Bus are optional.
type AssessmentOptions struct {
	Bank        assessment.Bank
	Repo        repository.AssessmentRepository
	Queue       SnapshotQueue
	Tokens      *utilities.TokenIssuer
	Bus         *utilities.EventBus
	Metrics     *metrics.Metrics
	Timing      assessment.TimingPolicy
	MaxSessions int
	IdleTimeout time.Duration
	Now         func() time.Time
}

type sessionEntry struct {
	mu      sync.Mutex
	session *assessment.Session
	outcome *Outcome
	event   *CompletionEvent
}

type assessmentService struct {
	bank     assessment.Bank
	repo     repository.AssessmentRepository
	queue    SnapshotQueue
	tokens   *utilities.TokenIssuer
	bus      *utilities.EventBus
	metrics  *metrics.Metrics
	timing   assessment.TimingPolicy
	now      func() time.Time
	sessions *expirable.LRU[string, *sessionEntry]
}

func NewAssessmentService(opts AssessmentOptions) (AssessmentService, error) {
	if err := assessment.ValidateBank(opts.Bank, [2]string{assessment.FirstAttentionCheckID, assessment.SecondAttentionCheckID}); err != nil {
		return nil, fmt.Errorf("question bank: %w", err)
	}
	if opts.Metrics == nil {
		return nil, errors.New("metrics are required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 10000
	}
	s := &assessmentService{
		bank:    opts.Bank,
		repo:    opts.Repo,
		queue:   opts.Queue,
		tokens:  opts.Tokens,
		bus:     opts.Bus,
		metrics: opts.Metrics,
		timing:  opts.Timing,
		now:     opts.Now,
	}
	s.sessions = expirable.NewLRU[string, *sessionEntry](opts.MaxSessions, func(string, *sessionEntry) {
		s.metrics.ActiveSessions.Dec()
	}, opts.IdleTimeout)
	return s, nil
}

func (s *assessmentService) StartSession(ctx context.Context, demo assessment.Demographics) (*StartedSession, error) {
	id := uuid.New().String()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	startedAt := s.now()

	sess, err := assessment.NewSession(id, s.bank, assessment.NewSequencer(rng), startedAt)
	if err != nil {
		s.metrics.SessionStartFailed.Inc()
		return nil, err
	}
	sess.Demographics = demo

	started := &StartedSession{SessionID: id, StartedAt: startedAt}
	if s.tokens != nil {
		if started.Token, err = s.tokens.Issue(id); err != nil {
			return nil, fmt.Errorf("issue session token: %w", err)
		}
	}
	for i, q := range sess.Set {
		started.Questions = append(started.Questions, PresentedQuestion{ID: q.ID, Text: q.Text, Position: i + 1})
	}

	s.sessions.Add(id, &sessionEntry{session: sess})
	s.metrics.SessionsStarted.Inc()
	s.metrics.ActiveSessions.Inc()
	utilities.Info("session %s started with %d questions", id, len(sess.Set))
	return started, nil
}

// lookup returns the live entry and refreshes its idle deadline.
func (s *assessmentService) lookup(sessionID string) (*sessionEntry, error) {
	entry, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.sessions.Add(sessionID, entry)
	return entry, nil
}

func progressOf(sess *assessment.Session) *Progress {
	missing := sess.Answers.Missing()
	return &Progress{
		SessionID: sess.ID,
		Answered:  sess.Answers.Len(),
		Total:     len(sess.Set),
		Missing:   missing,
		Completed: sess.Completed(),
	}
}

func (s *assessmentService) SubmitAnswer(ctx context.Context, sessionID, questionID string, value int) (*Progress, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.session.Submit(questionID, value); err != nil {
		s.metrics.AnswersRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	s.metrics.AnswersRecorded.Inc()
	return progressOf(entry.session), nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, assessment.ErrInvalidAnswerValue):
		return "invalid_value"
	case errors.Is(err, assessment.ErrUnknownQuestionID):
		return "unknown_question"
	case errors.Is(err, assessment.ErrSessionCompleted):
		return "completed"
	default:
		return "other"
	}
}

func (s *assessmentService) Progress(sessionID string) (*Progress, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return progressOf(entry.session), nil
}

// Finalize scores a complete session, persists its snapshot and announces it.
// A second call returns the first outcome.
func (s *assessmentService) Finalize(ctx context.Context, sessionID string) (*Outcome, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.outcome != nil {
		return entry.outcome, nil
	}

	res, err := entry.session.Finalize(s.now())
	if err != nil {
		return nil, err
	}
	verdict := assessment.Assess(res.Quality, s.timing)
	snap := entry.session.Snapshot(res)

	out := &Outcome{
		SessionID: sessionID,
		Scores:    res.Scores,
		Quality:   res.Quality,
		Verdict:   verdict,
		Persona:   res.Persona,
	}
	out.Persisted = s.persist(ctx, snap, verdict)

	entry.outcome = out
	entry.event = &CompletionEvent{Snapshot: snap, Verdict: verdict}

	s.metrics.AssessmentsFinished.WithLabelValues(string(res.Persona.Primary)).Inc()
	s.metrics.QualityVerdicts.WithLabelValues(string(verdict.Verdict)).Inc()
	s.metrics.CompletionSeconds.Observe(res.Quality.CompletionTime)
	utilities.Info("session %s finalized: persona=%s confidence=%s verdict=%s",
		sessionID, res.Persona.Primary, res.Persona.Confidence, verdict.Verdict)

	if s.bus != nil {
		s.bus.Publish(utilities.EventAssessmentCompleted, *entry.event)
	}
	return out, nil
}

// persist writes the record to the hosted database and falls back to the
// offline queue. It reports whether the hosted write succeeded.
func (s *assessmentService) persist(ctx context.Context, snap assessment.Snapshot, verdict assessment.QualityAssessment) bool {
	rec, err := model.NewAssessmentRecord(snap, verdict)
	if err != nil {
		utilities.Error("session %s: %v", snap.SessionID, err)
		return false
	}

	if s.repo != nil {
		err := s.repo.Save(ctx, rec)
		if err == nil {
			return true
		}
		utilities.Warn("session %s: hosted save failed, queueing offline: %v", snap.SessionID, err)
	}

	if s.queue == nil {
		utilities.Error("session %s: no storage available, snapshot kept in memory only", snap.SessionID)
		return false
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		utilities.Error("session %s: encode offline payload: %v", snap.SessionID, err)
		return false
	}
	if err := s.queue.Enqueue(ctx, snap.SessionID, payload); err != nil {
		utilities.Error("session %s: %v", snap.SessionID, err)
		return false
	}
	s.metrics.OfflineQueued.Inc()
	return false
}

func (s *assessmentService) ContextScores(sessionID, scenario string) (assessment.Scores, error) {
	sc, err := assessment.LookupScenario(scenario)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if missing := entry.session.Answers.Missing(); len(missing) > 0 {
		return nil, &assessment.IncompleteError{Missing: missing}
	}
	return entry.session.ScenarioScores(sc), nil
}

// Completed returns the snapshot of a finalized session, from memory or from
// the hosted database.
func (s *assessmentService) Completed(ctx context.Context, sessionID string) (*CompletionEvent, error) {
	if entry, ok := s.sessions.Get(sessionID); ok {
		entry.mu.Lock()
		ev := entry.event
		entry.mu.Unlock()
		if ev == nil {
			return nil, ErrNotCompleted
		}
		return ev, nil
	}
	if s.repo == nil {
		return nil, ErrSessionNotFound
	}
	rec, err := s.repo.FindBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	snap, err := rec.Snapshot()
	if err != nil {
		return nil, err
	}
	var flags []string
	if len(rec.Flags) > 0 {
		if err := json.Unmarshal(rec.Flags, &flags); err != nil {
			return nil, fmt.Errorf("decode flags: %w", err)
		}
	}
	return &CompletionEvent{
		Snapshot: snap,
		Verdict:  assessment.QualityAssessment{Verdict: assessment.Verdict(rec.Verdict), Flags: flags},
	}, nil
}

func (s *assessmentService) ListRecords(ctx context.Context, f repository.RecordFilter) ([]assessment.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}
	records, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]assessment.Snapshot, 0, len(records))
	for i := range records {
		snap, err := records[i].Snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *assessmentService) PersonaDistribution(ctx context.Context, f repository.RecordFilter) ([]repository.PersonaCount, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}
	return s.repo.PersonaDistribution(ctx, f)
}
