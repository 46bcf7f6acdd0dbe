package assessment

import "time"

// repetitionShare is the share of substantive answers a single value must
// exceed before it counts toward the repetition signal.
const repetitionShare = 0.3

// Thresholds used by Assess.
const (
	straightLiningThreshold    = 0.6
	extremeRespondingThreshold = 0.8
	socialDesirabilityCeiling  = 6.0
)

type AttentionResult struct {
	Passed int     `json:"passed"`
	Total  int     `json:"total"`
	Score  float64 `json:"score"`
}

type SocialDesirabilityResult struct {
	Score         float64 `json:"score"`
	QuestionCount int     `json:"question_count"`
}

type PatternResult struct {
	Repetition float64 `json:"repetition"`
	Extremity  float64 `json:"extremity"`
}

// QualityReport summarizes the quality-control signals of one assessment.
type QualityReport struct {
	AttentionChecks    AttentionResult          `json:"attention_checks"`
	SocialDesirability SocialDesirabilityResult `json:"social_desirability"`
	Patterns           PatternResult            `json:"patterns"`
	// CompletionTime is informational; thresholds are caller policy.
	CompletionTime float64 `json:"completion_time_seconds"`
}

// ComputeQuality scores the quality-control items and response patterns.
func ComputeQuality(set QuestionSet, answers map[string]int, startedAt, now time.Time) QualityReport {
	var r QualityReport

	var sdSum int
	var substantiveTotal, extremes int
	freq := make(map[int]int, MaxValue)

	for _, q := range set {
		v, answered := answers[q.ID]
		switch q.Dimension {
		case AttentionCheck:
			r.AttentionChecks.Total++
			if answered && q.CorrectAnswer != nil && v == *q.CorrectAnswer {
				r.AttentionChecks.Passed++
			}
		case SocialDesirability:
			if answered {
				sdSum += v
				r.SocialDesirability.QuestionCount++
			}
		default:
			if !answered || !q.Dimension.IsSubstantive() {
				continue
			}
			substantiveTotal++
			freq[v]++
			if v == MinValue || v == MaxValue {
				extremes++
			}
		}
	}

	if r.AttentionChecks.Total > 0 {
		r.AttentionChecks.Score = float64(r.AttentionChecks.Passed) / float64(r.AttentionChecks.Total)
	}
	if r.SocialDesirability.QuestionCount > 0 {
		r.SocialDesirability.Score = float64(sdSum) / float64(r.SocialDesirability.QuestionCount)
	}
	if substantiveTotal > 0 {
		total := float64(substantiveTotal)
		for v := MinValue; v <= MaxValue; v++ {
			share := float64(freq[v]) / total
			if share > repetitionShare {
				r.Patterns.Repetition += share
			}
		}
		r.Patterns.Extremity = float64(extremes) / total
	}
	r.CompletionTime = now.Sub(startedAt).Seconds()
	return r
}

// Verdict is the overall data-quality judgement.
type Verdict string

const (
	VerdictReliable     Verdict = "reliable"
	VerdictQuestionable Verdict = "questionable"
	VerdictUnreliable   Verdict = "unreliable"
)

// Quality flags raised by Assess.
const (
	FlagAttentionCheckFailed   = "attention_check_failed"
	FlagStraightLining         = "straight_lining"
	FlagExtremeResponding      = "extreme_responding"
	FlagSocialDesirabilityBias = "social_desirability_bias"
	FlagTooFast                = "too_fast"
	FlagTooSlow                = "too_slow"
)

// TimingPolicy bounds a plausible completion time. Zero disables a bound.
type TimingPolicy struct {
	MinDuration time.Duration
	MaxDuration time.Duration
}

// DefaultTimingPolicy is the 8-45 minute window observed for honest respondents.
var DefaultTimingPolicy = TimingPolicy{MinDuration: 8 * time.Minute, MaxDuration: 45 * time.Minute}

type QualityAssessment struct {
	Verdict Verdict  `json:"verdict"`
	Flags   []string `json:"flags"`
}

// Assess turns a report into a verdict. Failing every attention check is
// unreliable on its own; otherwise one flag is questionable and two or more
// are unreliable.
func Assess(r QualityReport, policy TimingPolicy) QualityAssessment {
	flags := []string{}
	ac := r.AttentionChecks
	if ac.Passed < ac.Total {
		flags = append(flags, FlagAttentionCheckFailed)
	}
	if r.Patterns.Repetition > straightLiningThreshold {
		flags = append(flags, FlagStraightLining)
	}
	if r.Patterns.Extremity > extremeRespondingThreshold {
		flags = append(flags, FlagExtremeResponding)
	}
	if r.SocialDesirability.QuestionCount > 0 && r.SocialDesirability.Score >= socialDesirabilityCeiling {
		flags = append(flags, FlagSocialDesirabilityBias)
	}
	elapsed := time.Duration(r.CompletionTime * float64(time.Second))
	if policy.MinDuration > 0 && elapsed < policy.MinDuration {
		flags = append(flags, FlagTooFast)
	}
	if policy.MaxDuration > 0 && elapsed > policy.MaxDuration {
		flags = append(flags, FlagTooSlow)
	}

	verdict := VerdictReliable
	switch {
	case ac.Total > 0 && ac.Passed == 0:
		verdict = VerdictUnreliable
	case len(flags) == 1:
		verdict = VerdictQuestionable
	case len(flags) > 1:
		verdict = VerdictUnreliable
	}
	return QualityAssessment{Verdict: verdict, Flags: flags}
}
