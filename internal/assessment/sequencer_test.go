package assessment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valid-assessment-backend/internal/assessment"
)

// corePreceding counts substantive items before index i.
func corePreceding(set assessment.QuestionSet, i int) int {
	n := 0
	for _, q := range set[:i] {
		if q.Dimension.IsSubstantive() {
			n++
		}
	}
	return n
}

func indexOf(set assessment.QuestionSet, id string) int {
	for i, q := range set {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func TestBuildQuestionSet_Invariants(t *testing.T) {
	banks := map[string]assessment.Bank{
		"default":   assessment.DefaultBank(),
		"minimal":   fixtureBank(10, 1),
		"no-sd":     fixtureBank(13, 0),
		"many-sd":   fixtureBank(17, 6),
		"e2e-shape": fixtureBank(12, 1),
	}
	for name, bank := range banks {
		t.Run(name, func(t *testing.T) {
			coreLen := len(bank.Core())
			sdLen := len(bank.ByDimension(assessment.SocialDesirability))
			i1 := int(0.3 * float64(coreLen))
			i2 := int(0.7 * float64(coreLen))

			for seed := uint64(0); seed < 200; seed++ {
				set, err := assessment.BuildQuestionSet(bank, seeded(seed))
				require.NoError(t, err)

				require.Len(t, set, coreLen+2+sdLen)
				assert.Equal(t, 2, set.Count(assessment.AttentionCheck))
				assert.Equal(t, sdLen, set.Count(assessment.SocialDesirability))

				first := indexOf(set, assessment.FirstAttentionCheckID)
				second := indexOf(set, assessment.SecondAttentionCheckID)
				require.True(t, first >= 0 && second > first)
				assert.Equal(t, i1, corePreceding(set, first), "seed %d", seed)
				assert.Equal(t, i2, corePreceding(set, second), "seed %d", seed)

				seen := map[string]bool{}
				for _, q := range set {
					assert.False(t, seen[q.ID], "duplicate %s", q.ID)
					seen[q.ID] = true
				}
				for _, q := range bank {
					assert.True(t, seen[q.ID], "missing %s", q.ID)
				}
			}
		})
	}
}

func TestBuildQuestionSet_Placement(t *testing.T) {
	// 10 core: checks spliced at 3 and 7(+1); length 12, interval 12/4 = 3,
	// so social-desirability items land at 3, 6 and 9.
	set, err := assessment.BuildQuestionSet(fixtureBank(10, 3), seeded(7))
	require.NoError(t, err)
	require.Len(t, set, 15)

	assert.Equal(t, 3, indexOf(set, "sd-0"))
	assert.Equal(t, 6, indexOf(set, "sd-1"))
	assert.Equal(t, 9, indexOf(set, "sd-2"))
	assert.Equal(t, 4, indexOf(set, assessment.FirstAttentionCheckID))
	assert.Equal(t, 11, indexOf(set, assessment.SecondAttentionCheckID))
}

func TestBuildQuestionSet_ShufflesCore(t *testing.T) {
	bank := assessment.DefaultBank()
	a, err := assessment.BuildQuestionSet(bank, seeded(1))
	require.NoError(t, err)
	b, err := assessment.BuildQuestionSet(bank, seeded(2))
	require.NoError(t, err)
	again, err := assessment.BuildQuestionSet(bank, seeded(1))
	require.NoError(t, err)

	assert.NotEqual(t, a.IDs(), b.IDs())
	assert.Equal(t, a.IDs(), again.IDs())
}

func TestBuildQuestionSet_Errors(t *testing.T) {
	t.Run("insufficient core", func(t *testing.T) {
		_, err := assessment.BuildQuestionSet(fixtureBank(9, 2), seeded(1))
		assert.ErrorIs(t, err, assessment.ErrInsufficientQuestions)
	})

	t.Run("missing attention check", func(t *testing.T) {
		var bank assessment.Bank
		for _, q := range fixtureBank(12, 1) {
			if q.ID != assessment.SecondAttentionCheckID {
				bank = append(bank, q)
			}
		}
		_, err := assessment.BuildQuestionSet(bank, seeded(1))
		assert.ErrorIs(t, err, assessment.ErrMissingAttentionChecks)
	})

	t.Run("attention check without valid answer", func(t *testing.T) {
		bank := fixtureBank(12, 1)
		for i := range bank {
			if bank[i].ID == assessment.FirstAttentionCheckID {
				bank[i].CorrectAnswer = correct(9)
			}
		}
		_, err := assessment.BuildQuestionSet(bank, seeded(1))
		assert.ErrorIs(t, err, assessment.ErrMissingAttentionChecks)
	})

	t.Run("corrupt item", func(t *testing.T) {
		bank := fixtureBank(12, 1)
		bank[4].Text = ""
		_, err := assessment.BuildQuestionSet(bank, seeded(1))
		assert.ErrorIs(t, err, assessment.ErrCorruptQuestionSet)
	})
}

func TestSequencer_CustomAttentionIDs(t *testing.T) {
	bank := fixtureBank(12, 0)
	for i := range bank {
		switch bank[i].ID {
		case assessment.FirstAttentionCheckID:
			bank[i].ID = "check-a"
		case assessment.SecondAttentionCheckID:
			bank[i].ID = "check-b"
		}
	}
	seq := assessment.NewSequencer(seeded(3))
	_, err := seq.Build(bank)
	require.ErrorIs(t, err, assessment.ErrMissingAttentionChecks)

	seq.AttentionCheckIDs = [2]string{"check-a", "check-b"}
	set, err := seq.Build(bank)
	require.NoError(t, err)
	assert.Equal(t, 3, corePreceding(set, indexOf(set, "check-a")))
	assert.Equal(t, 8, corePreceding(set, indexOf(set, "check-b")))
}

func TestValidateBank(t *testing.T) {
	ids := [2]string{assessment.FirstAttentionCheckID, assessment.SecondAttentionCheckID}
	require.NoError(t, assessment.ValidateBank(assessment.DefaultBank(), ids))

	var noDesire assessment.Bank
	for _, q := range assessment.DefaultBank() {
		if q.Dimension != assessment.Desire {
			noDesire = append(noDesire, q)
		}
	}
	assert.ErrorIs(t, assessment.ValidateBank(noDesire, ids), assessment.ErrInsufficientQuestions)

	dup := append(assessment.DefaultBank(), assessment.DefaultBank()[0])
	assert.ErrorIs(t, assessment.ValidateBank(dup, ids), assessment.ErrCorruptQuestionSet)

	uncategorised := assessment.DefaultBank()
	for i, q := range uncategorised {
		if q.Dimension == assessment.Institutional {
			uncategorised[i].Category = ""
			break
		}
	}
	assert.ErrorIs(t, assessment.ValidateBank(uncategorised, ids), assessment.ErrCorruptQuestionSet)
}

func TestBank_Categories(t *testing.T) {
	bank := fixtureBank(20, 1)
	assert.Equal(t, []string{"V-cat-0", "V-cat-1"}, bank.Categories(assessment.Verity))
	assert.Equal(t, []string{"attention"}, bank.Categories(assessment.AttentionCheck))
	assert.Empty(t, assessment.Bank{}.Categories(assessment.Desire))
}
