package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleConfidenceFormula(t *testing.T) {
	s := SimpleConfidence{}
	act := map[string]float64{
		"R1": 0.9,
		"R2": 0.6,
		"R3": 0.2,
		"R4": 0.0,
	}
	// 0.6*0.9 + 0.4*(2/4) = 0.74
	assert.InDelta(t, 0.74, s.Score(act), 1e-9)
}

func TestSimpleConfidenceEmptyMap(t *testing.T) {
	assert.Equal(t, 0.0, SimpleConfidence{}.Score(nil))
	assert.Equal(t, 0.0, SimpleConfidence{}.Score(map[string]float64{}))
}

func TestSimpleConfidenceBounds(t *testing.T) {
	all := map[string]float64{}
	for _, r := range ruleBase {
		all[r.ID] = 1.0
	}
	assert.Equal(t, 1.0, SimpleConfidence{}.Score(all))

	none := map[string]float64{}
	for _, r := range ruleBase {
		none[r.ID] = 0.0
	}
	assert.Equal(t, 0.0, SimpleConfidence{}.Score(none))
}

func TestPeakWeightedConfidenceBonus(t *testing.T) {
	p := NewPeakWeightedConfidence()

	// two rules past 0.3: no consensus bonus
	low := map[string]float64{"R1": 0.4, "R2": 0.4, "R3": 0.1}
	// three rules past 0.3: bonus applies
	high := map[string]float64{"R1": 0.4, "R2": 0.4, "R3": 0.4}

	assert.Greater(t, p.Score(high), p.Score(low))
	assert.LessOrEqual(t, p.Score(high), 1.0)
}

func TestPeakWeightedConfidenceCapped(t *testing.T) {
	p := NewPeakWeightedConfidence()
	act := map[string]float64{"R1": 1.0, "R2": 1.0, "R3": 1.0, "R4": 1.0}
	assert.Equal(t, 1.0, p.Score(act))
}

func TestPeakWeightedConfidenceEmptyMap(t *testing.T) {
	assert.Equal(t, 0.0, NewPeakWeightedConfidence().Score(nil))
}
