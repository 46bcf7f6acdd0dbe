package assessment

import "math"

const (
	MinPercentage = 0
	MaxPercentage = 100
)

// DimensionScore is a derived 0-100 score for one substantive dimension.
type DimensionScore struct {
	Dimension  Dimension `json:"dimension"`
	Percentage int       `json:"percentage"`
}

// Scores holds one entry per substantive dimension in canonical order.
type Scores []DimensionScore

// Get returns the percentage for d, or 0 if d is absent.
func (s Scores) Get(d Dimension) int {
	for _, ds := range s {
		if ds.Dimension == d {
			return ds.Percentage
		}
	}
	return 0
}

// Map returns the scores keyed by dimension name.
func (s Scores) Map() map[string]int {
	out := make(map[string]int, len(s))
	for _, ds := range s {
		out[ds.Dimension.String()] = ds.Percentage
	}
	return out
}

// ReverseScore reflects v about the midpoint of the 1-7 scale.
func ReverseScore(v int) int {
	return MinValue + MaxValue - v
}

// contribution is the raw value after applying the reverse flag.
func contribution(q Question, v int) int {
	if q.Reverse {
		return ReverseScore(v)
	}
	return v
}

// ComputeScores converts raw answers into the five substantive dimension
// percentages. Quality-control questions never contribute. A dimension without
// answers scores 0.
func ComputeScores(set QuestionSet, answers map[string]int) Scores {
	avgs := dimensionAverages(set, answers, nil)
	scores := make(Scores, 0, len(substantive))
	for _, d := range substantive {
		pct := 0
		if avg, ok := avgs[d]; ok {
			pct = clamp(roundHalfUp(scaleToPercent(avg)), MinPercentage, MaxPercentage)
		}
		scores = append(scores, DimensionScore{Dimension: d, Percentage: pct})
	}
	return scores
}

// dimensionAverages returns the mean contribution on the 1-7 scale for every
// substantive dimension with at least one answer. weight, when set, multiplies
// each contribution before averaging.
func dimensionAverages(set QuestionSet, answers map[string]int, weight func(Question) float64) map[Dimension]float64 {
	sums := make(map[Dimension]float64, len(substantive))
	counts := make(map[Dimension]int, len(substantive))
	for _, q := range set {
		if !q.Dimension.IsSubstantive() {
			continue
		}
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		c := float64(contribution(q, v))
		if weight != nil {
			c *= weight(q)
		}
		sums[q.Dimension] += c
		counts[q.Dimension]++
	}
	avgs := make(map[Dimension]float64, len(counts))
	for d, n := range counts {
		avgs[d] = sums[d] / float64(n)
	}
	return avgs
}

// scaleToPercent maps a 1-7 average linearly onto 0-100, unclamped.
func scaleToPercent(avg float64) float64 {
	return (avg - MinValue) / (MaxValue - MinValue) * 100
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
