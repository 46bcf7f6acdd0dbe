package assessment

import "sort"

// Balanced profile band, inclusive.
const (
	balancedLow  = 40
	balancedHigh = 60

	highConfidenceScore = 70
)

// Persona is the label assigned to a profile: a substantive dimension name or
// Balanced.
type Persona string

const PersonaBalanced Persona = "Balanced"

// PersonaFor returns the persona label of a dominant dimension.
func PersonaFor(d Dimension) Persona {
	return Persona(d.String())
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// PersonaResult is the classifier output. Secondary is empty for a balanced
// profile.
type PersonaResult struct {
	Primary    Persona    `json:"primary"`
	Secondary  Persona    `json:"secondary,omitempty"`
	Confidence Confidence `json:"confidence"`
	IsBalanced bool       `json:"is_balanced"`
}

// Classify ranks the scores and labels the profile. Equal scores keep their
// input order, so the first dimension listed wins a tie.
func Classify(scores Scores) PersonaResult {
	if len(scores) == 0 {
		return PersonaResult{Primary: PersonaBalanced, Confidence: ConfidenceLow, IsBalanced: true}
	}

	balanced := true
	for _, s := range scores {
		if s.Percentage < balancedLow || s.Percentage > balancedHigh {
			balanced = false
			break
		}
	}
	if balanced {
		return PersonaResult{Primary: PersonaBalanced, Confidence: ConfidenceLow, IsBalanced: true}
	}

	ranked := make(Scores, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	res := PersonaResult{
		Primary:    PersonaFor(ranked[0].Dimension),
		Confidence: ConfidenceMedium,
	}
	if len(ranked) > 1 {
		res.Secondary = PersonaFor(ranked[1].Dimension)
	}
	if ranked[0].Percentage >= highConfidenceScore {
		res.Confidence = ConfidenceHigh
	}
	return res
}
