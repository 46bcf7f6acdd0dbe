package assessment_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valid-assessment-backend/internal/assessment"
)

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want assessment.Dimension
	}{
		{"Verity", assessment.Verity},
		{"verity", assessment.Verity},
		{"V", assessment.Verity},
		{"association", assessment.Association},
		{"A", assessment.Association},
		{"LivedExperience", assessment.LivedExperience},
		{"lived_experience", assessment.LivedExperience},
		{"lived-experience", assessment.LivedExperience},
		{"L", assessment.LivedExperience},
		{" institutional ", assessment.Institutional},
		{"D", assessment.Desire},
		{"attention_check", assessment.AttentionCheck},
		{"SD", assessment.SocialDesirability},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := assessment.ParseDimension(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := assessment.ParseDimension("charisma")
	assert.Error(t, err)
}

func TestDimensionClassification(t *testing.T) {
	for _, d := range assessment.Substantive() {
		assert.True(t, d.IsSubstantive(), d.String())
		assert.False(t, d.IsQualityControl(), d.String())
	}
	assert.True(t, assessment.AttentionCheck.IsQualityControl())
	assert.True(t, assessment.SocialDesirability.IsQualityControl())
	assert.Equal(t, []assessment.Dimension{
		assessment.Verity, assessment.Association, assessment.LivedExperience,
		assessment.Institutional, assessment.Desire,
	}, assessment.Substantive())
	assert.Equal(t, "L", assessment.LivedExperience.Code())
	assert.Equal(t, "AC", assessment.AttentionCheck.Code())
}

func TestDimensionJSON(t *testing.T) {
	raw, err := json.Marshal(assessment.DimensionScore{Dimension: assessment.Institutional, Percentage: 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dimension":"Institutional","percentage":42}`, string(raw))

	var ds assessment.DimensionScore
	require.NoError(t, json.Unmarshal([]byte(`{"dimension":"I","percentage":7}`), &ds))
	assert.Equal(t, assessment.Institutional, ds.Dimension)

	_, err = json.Marshal(assessment.DimensionScore{})
	assert.Error(t, err)
}
