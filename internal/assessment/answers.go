package assessment

import (
	"fmt"
	"time"
)

// Answer is the raw 1-7 response a respondent gave. It is never rewritten;
// reverse scoring happens at scoring time.
type Answer struct {
	QuestionID string    `json:"question_id"`
	Value      int       `json:"value"`
	AnsweredAt time.Time `json:"answered_at"`
}

// Answers holds the responses for a single question set. It is not safe for
// concurrent use; the owner of the session serializes access.
type Answers struct {
	set    QuestionSet
	index  map[string]Question
	values map[string]Answer
	now    func() time.Time
}

// NewAnswers returns an empty store bound to set.
func NewAnswers(set QuestionSet) *Answers {
	index := make(map[string]Question, len(set))
	for _, q := range set {
		index[q.ID] = q
	}
	return &Answers{
		set:    set,
		index:  index,
		values: make(map[string]Answer, len(set)),
		now:    time.Now,
	}
}

// Record stores value for questionID, overwriting any earlier answer. A
// rejected call leaves the store untouched.
func (a *Answers) Record(questionID string, value int) error {
	if !ValidValue(value) {
		return fmt.Errorf("%w: %d is outside %d..%d", ErrInvalidAnswerValue, value, MinValue, MaxValue)
	}
	if _, ok := a.index[questionID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestionID, questionID)
	}
	a.values[questionID] = Answer{QuestionID: questionID, Value: value, AnsweredAt: a.now()}
	return nil
}

// Get returns the recorded value for questionID.
func (a *Answers) Get(questionID string) (int, bool) {
	ans, ok := a.values[questionID]
	return ans.Value, ok
}

// Len is the number of answered questions.
func (a *Answers) Len() int {
	return len(a.values)
}

// IsComplete reports whether every question in the set has an answer.
func (a *Answers) IsComplete() bool {
	return len(a.Missing()) == 0
}

// Missing lists unanswered question ids in presentation order.
func (a *Answers) Missing() []string {
	var missing []string
	for _, q := range a.set {
		if _, ok := a.values[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Values returns a copy of the raw answers keyed by question id.
func (a *Answers) Values() map[string]int {
	out := make(map[string]int, len(a.values))
	for id, ans := range a.values {
		out[id] = ans.Value
	}
	return out
}

// List returns the answers in presentation order.
func (a *Answers) List() []Answer {
	out := make([]Answer, 0, len(a.values))
	for _, q := range a.set {
		if ans, ok := a.values[q.ID]; ok {
			out = append(out, ans)
		}
	}
	return out
}
