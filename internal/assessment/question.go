package assessment

import "fmt"

const (
	MinValue = 1
	MaxValue = 7

	// MinCoreQuestions is the smallest substantive set a session may start with.
	MinCoreQuestions = 10
)

// Default ids of the two attention checks the sequencer places.
const (
	FirstAttentionCheckID  = "attention-1"
	SecondAttentionCheckID = "attention-2"
)

// Question is an immutable catalog entry. CorrectAnswer is set only for
// attention checks.
type Question struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Dimension     Dimension `json:"dimension"`
	Category      string    `json:"category"`
	Reverse       bool      `json:"reverse"`
	CorrectAnswer *int      `json:"correct_answer,omitempty"`
}

// Bank is the full catalog a question set is drawn from.
type Bank []Question

// ValidValue reports whether v is on the 1-7 scale.
func ValidValue(v int) bool {
	return v >= MinValue && v <= MaxValue
}

// Core returns the substantive questions in bank order.
func (b Bank) Core() []Question {
	var out []Question
	for _, q := range b {
		if !q.Dimension.IsQualityControl() {
			out = append(out, q)
		}
	}
	return out
}

// ByDimension returns the questions tagged with d in bank order.
func (b Bank) ByDimension(d Dimension) []Question {
	var out []Question
	for _, q := range b {
		if q.Dimension == d {
			out = append(out, q)
		}
	}
	return out
}

// Find returns the question with the given id.
func (b Bank) Find(id string) (Question, bool) {
	for _, q := range b {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Categories returns the distinct categories of d in first-seen order.
func (b Bank) Categories(d Dimension) []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range b.ByDimension(d) {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}

// ValidateBank checks the invariants every downstream component relies on:
// enough core items, every substantive dimension covered by categorised
// items, both attention checks present with a valid correct answer.
func ValidateBank(b Bank, checkIDs [2]string) error {
	core := b.Core()
	if len(core) < MinCoreQuestions {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuestions, len(core), MinCoreQuestions)
	}
	for _, d := range substantive {
		if len(b.ByDimension(d)) == 0 {
			return fmt.Errorf("%w: no questions for %s", ErrInsufficientQuestions, d)
		}
		for _, c := range b.Categories(d) {
			if c == "" {
				return fmt.Errorf("%w: %s question without a category", ErrCorruptQuestionSet, d)
			}
		}
	}
	for _, id := range checkIDs {
		if _, err := attentionCheck(b, id); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(b))
	for _, q := range b {
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrCorruptQuestionSet, q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

func attentionCheck(b Bank, id string) (Question, error) {
	q, ok := b.Find(id)
	if !ok || q.Dimension != AttentionCheck {
		return Question{}, fmt.Errorf("%w: %q not in bank", ErrMissingAttentionChecks, id)
	}
	if q.CorrectAnswer == nil || !ValidValue(*q.CorrectAnswer) {
		return Question{}, fmt.Errorf("%w: %q has no valid correct answer", ErrMissingAttentionChecks, id)
	}
	return q, nil
}

func intPtr(v int) *int { return &v }
