package assessment

import (
	"fmt"
	"sort"
	"strings"
)

// Bounds of a scenario-weighted percentage. Unlike the base scores, a weighted
// score never drops below the floor.
const (
	MinScenarioPercentage = 10
	MaxScenarioPercentage = 100
)

// Scenario re-reads a finished assessment through a situational lens.
// CategoryWeights scale individual question contributions before the
// percentage conversion; Emphasis adjusts whole dimensions afterwards.
// Missing entries default to 1.0.
type Scenario struct {
	Name            string                `json:"name"`
	Label           string                `json:"label"`
	CategoryWeights map[string]float64    `json:"category_weights,omitempty"`
	Emphasis        map[Dimension]float64 `json:"emphasis,omitempty"`
}

var scenarios = map[string]Scenario{
	"work": {
		Name:  "work",
		Label: "Work",
		CategoryWeights: map[string]float64{
			"evidence":    1.1,
			"credentials": 1.1,
			"peers":       0.9,
		},
		Emphasis: map[Dimension]float64{
			Verity:        1.2,
			Institutional: 1.1,
			Desire:        0.8,
		},
	},
	"crisis": {
		Name:  "crisis",
		Label: "Crisis",
		CategoryWeights: map[string]float64{
			"intuition": 1.2,
			"authority": 1.1,
			"scrutiny":  0.8,
		},
		Emphasis: map[Dimension]float64{
			LivedExperience: 1.3,
			Institutional:   1.2,
			Verity:          0.7,
		},
	},
	"leadership": {
		Name:  "leadership",
		Label: "Leadership",
		CategoryWeights: map[string]float64{
			"identity": 1.1,
			"values":   1.2,
			"hope":     0.9,
		},
		Emphasis: map[Dimension]float64{
			Association: 1.2,
			Desire:      1.1,
			Verity:      1.1,
		},
	},
}

// LookupScenario returns the built-in scenario with the given name.
func LookupScenario(name string) (Scenario, error) {
	sc, ok := scenarios[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q", name)
	}
	return sc, nil
}

// ScenarioNames lists the built-in scenarios alphabetically.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sc Scenario) categoryWeight(q Question) float64 {
	if w, ok := sc.CategoryWeights[q.Category]; ok {
		return w
	}
	return 1.0
}

func (sc Scenario) emphasis(d Dimension) float64 {
	if e, ok := sc.Emphasis[d]; ok {
		return e
	}
	return 1.0
}

// applyEmphasis adjusts a base percentage by emphasis e. Boosts are capped at 100;
// dampening keeps 30% of the base even at e == 0.
func applyEmphasis(pct, e float64) float64 {
	switch {
	case e > 1.0:
		return min(MaxScenarioPercentage, pct*e)
	case e < 1.0:
		return pct * (0.3 + 0.7*e)
	}
	return pct
}

// ComputeScenarioScores is the weighted variant of ComputeScores. Every
// result lies in [10, 100].
func ComputeScenarioScores(set QuestionSet, answers map[string]int, sc Scenario) Scores {
	avgs := dimensionAverages(set, answers, sc.categoryWeight)
	scores := make(Scores, 0, len(substantive))
	for _, d := range substantive {
		pct := 0.0
		if avg, ok := avgs[d]; ok {
			pct = scaleToPercent(avg)
		}
		pct = applyEmphasis(pct, sc.emphasis(d))
		scores = append(scores, DimensionScore{
			Dimension:  d,
			Percentage: clamp(roundHalfUp(pct), MinScenarioPercentage, MaxScenarioPercentage),
		})
	}
	return scores
}
