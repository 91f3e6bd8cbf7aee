package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuilds(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)

	for _, name := range []string{
		VarTemperature, VarSoilHumidity, VarRainProbability,
		VarAirHumidity, VarWindSpeed, VarDuration, VarFrequency,
	} {
		v, ok := reg.Variable(name)
		require.True(t, ok, "variable %s missing", name)
		assert.NotEmpty(t, v.Labels())
	}
}

func TestMembershipWithinUnitInterval(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)

	temp, _ := reg.Variable(VarTemperature)
	for x := -10.0; x <= 60; x += 0.7 {
		for _, label := range temp.Labels() {
			mu := temp.Membership(label, x)
			assert.GreaterOrEqual(t, mu, 0.0)
			assert.LessOrEqual(t, mu, 1.0)
		}
	}
}

// Adjacent sets overlap, so no in-domain value may have zero membership in
// every label of its variable.
func TestAntecedentCoverage(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)

	antecedents := []string{VarTemperature, VarSoilHumidity, VarRainProbability, VarAirHumidity, VarWindSpeed}
	for _, name := range antecedents {
		v, _ := reg.Variable(name)
		lo := v.Universe[0]
		hi := v.Universe[len(v.Universe)-1]
		for x := lo; x <= hi; x += (hi - lo) / 200 {
			var total float64
			for _, label := range v.Labels() {
				total += v.Membership(label, x)
			}
			assert.Greater(t, total, 0.0, "%s has a coverage hole at %g", name, x)
		}
	}
}

func TestMembershipKnownValues(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)

	assert.InDelta(t, 1.0, reg.Membership(VarTemperature, "high", 35), 1e-9)
	assert.InDelta(t, 1.0, reg.Membership(VarSoilHumidity, "dry", 10), 1e-9)
	assert.InDelta(t, 0.5, reg.Membership(VarAirHumidity, "low", 30), 1e-9)
	assert.InDelta(t, 0.0, reg.Membership(VarTemperature, "medium", 35), 1e-9)
	// unknown names are inert, never panic
	assert.Equal(t, 0.0, reg.Membership("bogus", "low", 1))
	assert.Equal(t, 0.0, reg.Membership(VarTemperature, "bogus", 1))
}

func TestFrequencyDomainBounds(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)

	freq, _ := reg.Variable(VarFrequency)
	assert.Equal(t, 0.5, freq.Universe[0])
	assert.Equal(t, 4.0, freq.Universe[len(freq.Universe)-1])
}
