package station_simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorStaysInDomain(t *testing.T) {
	g := NewDataGenerator(42)
	for i := 0; i < 500; i++ {
		r := g.Next("station1", "field1")
		assert.GreaterOrEqual(t, r.Temperature, 0.0)
		assert.LessOrEqual(t, r.Temperature, 50.0)
		assert.GreaterOrEqual(t, r.SoilHumidity, 0.0)
		assert.LessOrEqual(t, r.SoilHumidity, 100.0)
		assert.GreaterOrEqual(t, r.RainProbability, 0.0)
		assert.LessOrEqual(t, r.RainProbability, 100.0)
		assert.GreaterOrEqual(t, r.AirHumidity, 0.0)
		assert.LessOrEqual(t, r.AirHumidity, 100.0)
		assert.GreaterOrEqual(t, r.WindSpeed, 0.0)
		assert.LessOrEqual(t, r.WindSpeed, 50.0)
	}
}

func TestGeneratorTagsReading(t *testing.T) {
	g := NewDataGenerator(7)
	r := g.Next("station9", "field3")
	require.Equal(t, "station9", r.StationID)
	require.Equal(t, "field3", r.FieldID)
	assert.False(t, r.Aggregated)
	assert.False(t, r.Timestamp.IsZero())
}

func TestGeneratorWalksSmoothly(t *testing.T) {
	g := NewDataGenerator(13)
	prev := g.Next("s", "f")
	for i := 0; i < 100; i++ {
		cur := g.Next("s", "f")
		// One tick never jumps more than the step width plus the day-cycle swing.
		assert.InDelta(t, prev.SoilHumidity, cur.SoilHumidity, humStep+1)
		assert.InDelta(t, prev.WindSpeed, cur.WindSpeed, windStep+1)
		prev = cur
	}
}
