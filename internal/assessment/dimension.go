package assessment

import (
	"fmt"
	"strings"
)

// Dimension is the closed set of question dimensions.
type Dimension int

const (
	DimensionUnknown Dimension = iota
	Verity
	Association
	LivedExperience
	Institutional
	Desire
	AttentionCheck
	SocialDesirability
)

// substantive is the fixed iteration order used for scoring and tie-breaks.
var substantive = [...]Dimension{Verity, Association, LivedExperience, Institutional, Desire}

var dimensionNames = map[Dimension]string{
	Verity:             "Verity",
	Association:        "Association",
	LivedExperience:    "LivedExperience",
	Institutional:      "Institutional",
	Desire:             "Desire",
	AttentionCheck:     "AttentionCheck",
	SocialDesirability: "SocialDesirability",
}

// dimensionAliases is the canonical mapping table for every spelling the
// stored data and clients use. Keys are lowercased with separators removed.
var dimensionAliases = map[string]Dimension{
	"verity":             Verity,
	"v":                  Verity,
	"association":        Association,
	"a":                  Association,
	"livedexperience":    LivedExperience,
	"lived":              LivedExperience,
	"l":                  LivedExperience,
	"institutional":      Institutional,
	"i":                  Institutional,
	"desire":             Desire,
	"d":                  Desire,
	"attentioncheck":     AttentionCheck,
	"attention":          AttentionCheck,
	"ac":                 AttentionCheck,
	"socialdesirability": SocialDesirability,
	"sd":                 SocialDesirability,
}

// Substantive returns the five scored dimensions in canonical order.
func Substantive() []Dimension {
	out := make([]Dimension, len(substantive))
	copy(out, substantive[:])
	return out
}

// ParseDimension maps any accepted spelling ("verity", "V", "lived_experience")
// to its Dimension.
func ParseDimension(s string) (Dimension, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	if d, ok := dimensionAliases[key]; ok {
		return d, nil
	}
	return DimensionUnknown, fmt.Errorf("unknown dimension %q", s)
}

func (d Dimension) String() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return "Unknown"
}

// Code is the one-letter short form used in compact payloads.
func (d Dimension) Code() string {
	switch d {
	case AttentionCheck:
		return "AC"
	case SocialDesirability:
		return "SD"
	case DimensionUnknown:
		return ""
	}
	return d.String()[:1]
}

// IsQualityControl reports whether d is excluded from substantive scoring.
func (d Dimension) IsQualityControl() bool {
	return d == AttentionCheck || d == SocialDesirability
}

func (d Dimension) IsSubstantive() bool {
	return d >= Verity && d <= Desire
}

func (d Dimension) MarshalText() ([]byte, error) {
	if d == DimensionUnknown {
		return nil, fmt.Errorf("cannot marshal unknown dimension")
	}
	return []byte(d.String()), nil
}

func (d *Dimension) UnmarshalText(b []byte) error {
	parsed, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
