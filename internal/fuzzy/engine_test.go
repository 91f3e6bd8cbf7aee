package fuzzy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestOutputsStayInPhysicalDomains(t *testing.T) {
	e := newEngine(t)
	for _, temp := range []float64{0, 12.5, 25, 37.5, 50} {
		for _, soil := range []float64{0, 25, 50, 75, 100} {
			for _, rain := range []float64{0, 50, 100} {
				out := e.CalculateIrrigation(temp, soil, rain, 50, 10, 1.0)
				assert.GreaterOrEqual(t, out.Duration, 0.0)
				assert.LessOrEqual(t, out.Duration, 60.0)
				assert.GreaterOrEqual(t, out.Frequency, 0.5)
				assert.LessOrEqual(t, out.Frequency, 4.0)
				assert.GreaterOrEqual(t, out.Confidence, 0.0)
				assert.LessOrEqual(t, out.Confidence, 1.0)
			}
		}
	}
}

func TestActivationMapCoversAllRules(t *testing.T) {
	e := newEngine(t)
	out := e.CalculateIrrigation(28, 35, 20, 45, 12, 1.0)
	require.Len(t, out.Activations, RuleCount)
	for id, v := range out.Activations {
		assert.GreaterOrEqual(t, v, 0.0, "%s", id)
		assert.LessOrEqual(t, v, 1.0, "%s", id)
	}
}

func TestDeterminismAcrossRepeatedCalls(t *testing.T) {
	e := newEngine(t)
	first := e.CalculateIrrigation(25, 60, 30, 50, 10, 1.0)
	second := e.CalculateIrrigation(25, 60, 30, 50, 10, 1.0) // cache hit
	assert.Equal(t, first.Duration, second.Duration)
	assert.Equal(t, first.Frequency, second.Frequency)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Activations, second.Activations)

	// a fresh engine recomputes and must agree bit for bit
	e2 := newEngine(t)
	third := e2.CalculateIrrigation(25, 60, 30, 50, 10, 1.0)
	assert.Equal(t, first, third)
}

func TestRainSuppressesIrrigation(t *testing.T) {
	e := newEngine(t)
	wet := e.CalculateIrrigation(22, 60, 85, 80, 8, 1.0)
	dry := e.CalculateIrrigation(22, 60, 10, 80, 8, 1.0)
	assert.Less(t, wet.Duration, dry.Duration)
	assert.Greater(t, wet.Activations["R1"], 0.9)
}

func TestDrySoilIntensifiesIrrigation(t *testing.T) {
	e := newEngine(t)
	out := e.CalculateIrrigation(35, 10, 5, 30, 10, 1.0)
	assert.GreaterOrEqual(t, out.Duration, 35.0)
	assert.Greater(t, out.Activations["R3"], 0.8, "dry soil + low rain rule")
	assert.Greater(t, out.Activations["R4"], 0.8, "high temperature + dry soil rule")
	assert.Less(t, out.Activations["R8"], 0.1, "wet soil rule must stay quiet")
}

func TestExtremesProduceFiniteOutputs(t *testing.T) {
	e := newEngine(t)
	for _, in := range [][5]float64{
		{0, 0, 0, 0, 0},
		{50, 100, 100, 100, 40},
	} {
		out := e.CalculateIrrigation(in[0], in[1], in[2], in[3], in[4], 1.0)
		assert.False(t, math.IsNaN(out.Duration) || math.IsInf(out.Duration, 0))
		assert.False(t, math.IsNaN(out.Frequency) || math.IsInf(out.Frequency, 0))
		assert.GreaterOrEqual(t, out.Duration, 0.0)
		assert.LessOrEqual(t, out.Duration, 60.0)
		assert.GreaterOrEqual(t, out.Frequency, 0.5)
		assert.LessOrEqual(t, out.Frequency, 4.0)
	}
}

// Perturbing one reading slightly around a fuzzy-set breakpoint must not move
// the duration by more than 50% relative.
func TestContinuityNearBreakpoints(t *testing.T) {
	e := newEngine(t)
	cases := [][5]float64{
		{30, 50, 20, 50, 10},  // temperature high/medium hinge
		{25, 30, 20, 50, 10},  // soil dry/moderate hinge
		{25, 50, 50, 50, 10},  // rain medium/high hinge
		{25, 50, 20, 40, 10},  // air low/medium hinge
		{25, 50, 20, 50, 15},  // wind low/medium hinge
	}
	for _, c := range cases {
		for axis := 0; axis < 5; axis++ {
			lo, hi := c, c
			lo[axis] -= 0.1
			hi[axis] += 0.1
			a := e.CalculateIrrigation(lo[0], lo[1], lo[2], lo[3], lo[4], 1.0)
			b := e.CalculateIrrigation(hi[0], hi[1], hi[2], hi[3], hi[4], 1.0)
			ref := math.Max(a.Duration, b.Duration)
			if ref < 1 {
				continue
			}
			rel := math.Abs(a.Duration-b.Duration) / ref
			assert.LessOrEqual(t, rel, 0.5, "discontinuity at %v axis %d", c, axis)
		}
	}
}

func TestRuleActivationsMatchCalculateIrrigation(t *testing.T) {
	e := newEngine(t)
	out := e.CalculateIrrigation(31, 44, 27, 66, 18, 1.2)
	standalone := e.RuleActivations(31, 44, 27, 66, 18)
	assert.Equal(t, standalone, out.Activations)
}

func TestPlantAdjustmentScalesAndClamps(t *testing.T) {
	e := newEngine(t)
	raw, _, _, ok := e.infer(35, 10, 5, 30, 10)
	require.True(t, ok)

	strong := e.CalculateIrrigation(35, 10, 5, 30, 10, 1.5)
	weak := e.CalculateIrrigation(35, 10, 5, 30, 10, 0.3)
	assert.InDelta(t, clamp(raw*1.5, 0, 60), strong.Duration, 0.01)
	assert.InDelta(t, clamp(raw*0.3, 0, 60), weak.Duration, 0.01)

	// factors outside [0.3, 1.5] clamp, they never reject
	overshoot := e.CalculateIrrigation(35, 10, 5, 30, 10, 9.0)
	assert.Equal(t, strong.Duration, overshoot.Duration)
	undershoot := e.CalculateIrrigation(35, 10, 5, 30, 10, -2.0)
	assert.Equal(t, weak.Duration, undershoot.Duration)
}

func TestAdjustmentAffectsFrequencyFormula(t *testing.T) {
	e := newEngine(t)
	_, rawFreq, _, ok := e.infer(25, 60, 30, 50, 10)
	require.True(t, ok)

	out := e.CalculateIrrigation(25, 60, 30, 50, 10, 1.0)
	want := round2(clamp(rawFreq*(0.85+0.3*1.0), 0.5, 4))
	assert.Equal(t, want, out.Frequency)
}

func TestWellFormedExampleDecision(t *testing.T) {
	e := newEngine(t)
	out := e.CalculateIrrigation(25, 60, 30, 50, 10, 1.0)
	require.Len(t, out.Activations, RuleCount)
	assert.GreaterOrEqual(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)

	again := e.CalculateIrrigation(25, 60, 30, 50, 10, 1.0)
	assert.Equal(t, out, again)
}

func TestFallbackOutputShape(t *testing.T) {
	out := fallbackOutput()
	assert.Equal(t, FallbackDuration, out.Duration)
	assert.Equal(t, FallbackFrequency, out.Frequency)
	assert.Empty(t, out.Activations)
	assert.Equal(t, 0.0, out.Confidence)
}

func TestConfidencePolicyIsConfigurable(t *testing.T) {
	e := newEngine(t, WithConfidenceStrategy(NewPeakWeightedConfidence()))
	assert.Equal(t, "peak-weighted", e.ConfidencePolicy())

	def := newEngine(t)
	assert.Equal(t, "simple", def.ConfidencePolicy())
}
