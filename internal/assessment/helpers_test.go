package assessment_test

import (
	"fmt"
	"math/rand/v2"

	"valid-assessment-backend/internal/assessment"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func correct(v int) *int { return &v }

// fixtureBank builds a bank with core questions spread round-robin over the
// five dimensions, both attention checks (correct 4 and 1) and sdCount
// social-desirability items.
func fixtureBank(core, sdCount int) assessment.Bank {
	dims := assessment.Substantive()
	var b assessment.Bank
	for i := 0; i < core; i++ {
		d := dims[i%len(dims)]
		b = append(b, assessment.Question{
			ID:        fmt.Sprintf("%s-%d", d.Code(), i),
			Text:      fmt.Sprintf("core question %d", i),
			Dimension: d,
			Category:  fmt.Sprintf("%s-cat-%d", d.Code(), i%2),
		})
	}
	b = append(b,
		assessment.Question{ID: assessment.FirstAttentionCheckID, Text: "select 4", Dimension: assessment.AttentionCheck, Category: "attention", CorrectAnswer: correct(4)},
		assessment.Question{ID: assessment.SecondAttentionCheckID, Text: "select 1", Dimension: assessment.AttentionCheck, Category: "attention", CorrectAnswer: correct(1)},
	)
	for i := 0; i < sdCount; i++ {
		b = append(b, assessment.Question{
			ID:        fmt.Sprintf("sd-%d", i),
			Text:      fmt.Sprintf("desirability %d", i),
			Dimension: assessment.SocialDesirability,
			Category:  "desirability",
		})
	}
	return b
}

// singleton returns a one-question set for d.
func singleton(d assessment.Dimension, reverse bool) assessment.QuestionSet {
	return assessment.QuestionSet{{ID: "q", Text: "q", Dimension: d, Category: "c", Reverse: reverse}}
}
