package assessment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valid-assessment-backend/internal/assessment"
)

func TestComputeQuality(t *testing.T) {
	set, err := assessment.BuildQuestionSet(fixtureBank(10, 3), seeded(11))
	require.NoError(t, err)

	answers := map[string]int{
		assessment.FirstAttentionCheckID:  4,
		assessment.SecondAttentionCheckID: 5, // wrong
		"sd-0":                            6,
		"sd-1":                            3,
		// sd-2 unanswered
	}
	// 10 substantive answers: six 7s, two 1s, two 4s.
	values := []int{7, 7, 7, 7, 7, 7, 1, 1, 4, 4}
	i := 0
	for _, q := range set {
		if q.Dimension.IsSubstantive() {
			answers[q.ID] = values[i]
			i++
		}
	}

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := assessment.ComputeQuality(set, answers, start, start.Add(12*time.Minute))

	assert.Equal(t, assessment.AttentionResult{Passed: 1, Total: 2, Score: 0.5}, r.AttentionChecks)
	assert.Equal(t, 2, r.SocialDesirability.QuestionCount)
	assert.InDelta(t, 4.5, r.SocialDesirability.Score, 1e-9)
	// Only the value 7 exceeds 30% of answers.
	assert.InDelta(t, 0.6, r.Patterns.Repetition, 1e-9)
	assert.InDelta(t, 0.8, r.Patterns.Extremity, 1e-9)
	assert.InDelta(t, 720, r.CompletionTime, 1e-9)
}

func TestComputeQuality_NoAnswers(t *testing.T) {
	set, err := assessment.BuildQuestionSet(assessment.DefaultBank(), seeded(2))
	require.NoError(t, err)
	now := time.Now()

	r := assessment.ComputeQuality(set, map[string]int{}, now, now)
	assert.Equal(t, 0, r.AttentionChecks.Passed)
	assert.Equal(t, 2, r.AttentionChecks.Total)
	assert.Zero(t, r.SocialDesirability.QuestionCount)
	assert.Zero(t, r.Patterns.Repetition)
	assert.Zero(t, r.Patterns.Extremity)
}

func TestAssess(t *testing.T) {
	clean := assessment.QualityReport{
		AttentionChecks:    assessment.AttentionResult{Passed: 2, Total: 2, Score: 1},
		SocialDesirability: assessment.SocialDesirabilityResult{Score: 3.5, QuestionCount: 3},
		Patterns:           assessment.PatternResult{Repetition: 0.35, Extremity: 0.2},
		CompletionTime:     (15 * time.Minute).Seconds(),
	}

	tests := []struct {
		name    string
		mutate  func(r *assessment.QualityReport)
		verdict assessment.Verdict
		flags   []string
	}{
		{
			name:    "clean",
			mutate:  func(*assessment.QualityReport) {},
			verdict: assessment.VerdictReliable,
			flags:   []string{},
		},
		{
			name:    "one failed check",
			mutate:  func(r *assessment.QualityReport) { r.AttentionChecks.Passed = 1 },
			verdict: assessment.VerdictQuestionable,
			flags:   []string{assessment.FlagAttentionCheckFailed},
		},
		{
			name:    "all checks failed",
			mutate:  func(r *assessment.QualityReport) { r.AttentionChecks.Passed = 0 },
			verdict: assessment.VerdictUnreliable,
			flags:   []string{assessment.FlagAttentionCheckFailed},
		},
		{
			name: "straight lining and extremes",
			mutate: func(r *assessment.QualityReport) {
				r.Patterns = assessment.PatternResult{Repetition: 1, Extremity: 1}
			},
			verdict: assessment.VerdictUnreliable,
			flags:   []string{assessment.FlagStraightLining, assessment.FlagExtremeResponding},
		},
		{
			name:    "desirability bias",
			mutate:  func(r *assessment.QualityReport) { r.SocialDesirability.Score = 6.5 },
			verdict: assessment.VerdictQuestionable,
			flags:   []string{assessment.FlagSocialDesirabilityBias},
		},
		{
			name:    "too fast",
			mutate:  func(r *assessment.QualityReport) { r.CompletionTime = 90 },
			verdict: assessment.VerdictQuestionable,
			flags:   []string{assessment.FlagTooFast},
		},
		{
			name:    "too slow",
			mutate:  func(r *assessment.QualityReport) { r.CompletionTime = (2 * time.Hour).Seconds() },
			verdict: assessment.VerdictQuestionable,
			flags:   []string{assessment.FlagTooSlow},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := clean
			tt.mutate(&r)
			got := assessment.Assess(r, assessment.DefaultTimingPolicy)
			assert.Equal(t, tt.verdict, got.Verdict)
			assert.Equal(t, tt.flags, got.Flags)
		})
	}

	t.Run("timing disabled", func(t *testing.T) {
		r := clean
		r.CompletionTime = 1
		assert.Equal(t, assessment.VerdictReliable, assessment.Assess(r, assessment.TimingPolicy{}).Verdict)
	})
}
