package assessment

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionCompleted rejects answers submitted after Finalize.
var ErrSessionCompleted = errors.New("session already completed")

// Demographics is the respondent metadata carried alongside the answers.
type Demographics struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
	AgeRange     string `json:"age_range,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Result is everything derived from a complete answer store.
type Result struct {
	Scores  Scores        `json:"scores"`
	Quality QualityReport `json:"quality"`
	Persona PersonaResult `json:"persona"`
}

// Snapshot is the plain-data record handed to persistence and reporting.
type Snapshot struct {
	SessionID    string         `json:"session_id"`
	Demographics Demographics   `json:"demographics"`
	Answers      map[string]int `json:"answers"`
	Scores       Scores         `json:"scores"`
	Quality      QualityReport  `json:"quality"`
	Persona      PersonaResult  `json:"persona"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
}

// Session owns the question set and answers of one respondent. Callers that
// share a Session across goroutines must serialize access.
type Session struct {
	ID           string
	Set          QuestionSet
	Answers      *Answers
	Demographics Demographics
	StartedAt    time.Time

	completedAt time.Time
}

// NewSession builds the question set for a new respondent. No session is
// returned if the bank cannot produce a valid set.
func NewSession(id string, bank Bank, seq *Sequencer, startedAt time.Time) (*Session, error) {
	set, err := seq.Build(bank)
	if err != nil {
		return nil, fmt.Errorf("build question set: %w", err)
	}
	return &Session{
		ID:        id,
		Set:       set,
		Answers:   NewAnswers(set),
		StartedAt: startedAt,
	}, nil
}

// Submit records one answer. Answers may be overwritten until the session
// completes.
func (s *Session) Submit(questionID string, value int) error {
	if s.Completed() {
		return ErrSessionCompleted
	}
	return s.Answers.Record(questionID, value)
}

func (s *Session) Completed() bool {
	return !s.completedAt.IsZero()
}

func (s *Session) CompletedAt() time.Time {
	return s.completedAt
}

// Evaluate derives the result from the current answers without completing the
// session.
func (s *Session) Evaluate(now time.Time) Result {
	answers := s.Answers.Values()
	scores := ComputeScores(s.Set, answers)
	return Result{
		Scores:  scores,
		Quality: ComputeQuality(s.Set, answers, s.StartedAt, now),
		Persona: Classify(scores),
	}
}

// Finalize completes the session. It fails with an *IncompleteError naming
// every unanswered question. Finalizing again recomputes the same result
// against the original completion time.
func (s *Session) Finalize(now time.Time) (Result, error) {
	if missing := s.Answers.Missing(); len(missing) > 0 {
		return Result{}, &IncompleteError{Missing: missing}
	}
	if !s.Completed() {
		s.completedAt = now
	}
	return s.Evaluate(s.completedAt), nil
}

// ScenarioScores re-scores the current answers through sc.
func (s *Session) ScenarioScores(sc Scenario) Scores {
	return ComputeScenarioScores(s.Set, s.Answers.Values(), sc)
}

// Snapshot packages a result for collaborators outside the core.
func (s *Session) Snapshot(res Result) Snapshot {
	return Snapshot{
		SessionID:    s.ID,
		Demographics: s.Demographics,
		Answers:      s.Answers.Values(),
		Scores:       res.Scores,
		Quality:      res.Quality,
		Persona:      res.Persona,
		StartedAt:    s.StartedAt,
		CompletedAt:  s.completedAt,
	}
}
