package assessment

import (
	"fmt"
	"math/rand/v2"
)

// Relative positions of the two attention checks within the shuffled core.
const (
	firstCheckFraction  = 0.3
	secondCheckFraction = 0.7
)

// QuestionSet is the ordered sequence presented during one session. It is
// built once and never reordered.
type QuestionSet []Question

// IDs returns the question ids in presentation order.
func (qs QuestionSet) IDs() []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

// Lookup returns the question with the given id.
func (qs QuestionSet) Lookup(id string) (Question, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Count returns how many questions in the set belong to d.
func (qs QuestionSet) Count(d Dimension) int {
	n := 0
	for _, q := range qs {
		if q.Dimension == d {
			n++
		}
	}
	return n
}

// Sequencer builds question sets from a bank.
type Sequencer struct {
	// AttentionCheckIDs are the stable ids of the two checks, in placement order.
	AttentionCheckIDs [2]string

	rng *rand.Rand
}

// NewSequencer returns a Sequencer using the default attention check ids. A nil
// rng draws from a randomly seeded source.
func NewSequencer(rng *rand.Rand) *Sequencer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sequencer{
		AttentionCheckIDs: [2]string{FirstAttentionCheckID, SecondAttentionCheckID},
		rng:               rng,
	}
}

// Build shuffles the core questions, places the attention checks at 30% and
// 70% of the core length and spaces the social-desirability items evenly.
func (s *Sequencer) Build(bank Bank) (QuestionSet, error) {
	core := bank.Core()
	if len(core) < MinCoreQuestions {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuestions, len(core), MinCoreQuestions)
	}

	s.rng.Shuffle(len(core), func(i, j int) {
		core[i], core[j] = core[j], core[i]
	})

	first, err := attentionCheck(bank, s.AttentionCheckIDs[0])
	if err != nil {
		return nil, err
	}
	second, err := attentionCheck(bank, s.AttentionCheckIDs[1])
	if err != nil {
		return nil, err
	}

	coreLen := len(core)
	i1 := int(firstCheckFraction * float64(coreLen))
	i2 := int(secondCheckFraction * float64(coreLen))

	set := make([]Question, 0, len(bank))
	set = append(set, core...)
	set = insertAt(set, i1, first)
	// The first insertion shifted everything from i1 on by one.
	set = insertAt(set, i2+1, second)

	sd := bank.ByDimension(SocialDesirability)
	if len(sd) > 0 {
		interval := len(set) / (len(sd) + 1)
		for k, q := range sd {
			set = insertAt(set, min((k+1)*interval, len(set)), q)
		}
	}

	for i, q := range set {
		if q.ID == "" || q.Text == "" || q.Dimension == DimensionUnknown {
			return nil, fmt.Errorf("%w: item %d (%q) is incomplete", ErrCorruptQuestionSet, i, q.ID)
		}
	}
	return QuestionSet(set), nil
}

// BuildQuestionSet is a convenience wrapper around a default Sequencer.
func BuildQuestionSet(bank Bank, rng *rand.Rand) (QuestionSet, error) {
	return NewSequencer(rng).Build(bank)
}

func insertAt(s []Question, i int, q Question) []Question {
	s = append(s, Question{})
	copy(s[i+1:], s[i:])
	s[i] = q
	return s
}
