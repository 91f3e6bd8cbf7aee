package station_simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/model"
)

// Walk steps per tick, as a fraction of each variable's span. Small enough
// that consecutive readings look like weather, not noise.
const (
	tempStep = 0.8  // degC
	humStep  = 2.5  // percentage points (soil, rain, air)
	windStep = 1.5  // km/h
	diurnal  = 4.0  // degC amplitude of the day cycle
)

// DataGenerator holds the evolving state of one weather station. Each call to
// Next advances a bounded random walk over the five environment variables and
// returns a reading. A fixed seed makes a run reproducible.
type DataGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand

	temperature float64
	soil        float64
	rain        float64
	air         float64
	wind        float64
}

// NewDataGenerator starts the walk from mild mid-range conditions.
func NewDataGenerator(seed int64) *DataGenerator {
	rng := rand.New(rand.NewSource(seed))
	return &DataGenerator{
		rng:         rng,
		temperature: 18 + rng.Float64()*10,
		soil:        30 + rng.Float64()*40,
		rain:        rng.Float64() * 60,
		air:         35 + rng.Float64()*35,
		wind:        rng.Float64() * 20,
	}
}

// Next advances the walk and returns the next raw reading for the station.
func (g *DataGenerator) Next(stationID, fieldID string) model.EnvironmentReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()

	// Day cycle on temperature, random walk on everything.
	hour := float64(now.Hour()) + float64(now.Minute())/60
	cycle := diurnal * math.Sin((hour-9)*math.Pi/12)

	g.temperature = clampRange(g.temperature+g.step(tempStep), 0, 50)
	g.soil = clampRange(g.soil+g.step(humStep), 0, 100)
	g.rain = clampRange(g.rain+g.step(humStep), 0, 100)
	g.air = clampRange(g.air+g.step(humStep), 0, 100)
	g.wind = clampRange(g.wind+g.step(windStep), 0, 50)

	// Rain pulls soil humidity up and temperature down a little.
	if g.rain > 70 {
		g.soil = clampRange(g.soil+0.5, 0, 100)
	}

	return model.EnvironmentReading{
		StationID:       stationID,
		FieldID:         fieldID,
		Temperature:     round1(clampRange(g.temperature+cycle, 0, 50)),
		SoilHumidity:    round1(g.soil),
		RainProbability: round1(g.rain),
		AirHumidity:     round1(g.air),
		WindSpeed:       round1(g.wind),
		Aggregated:      false,
		Timestamp:       now,
	}
}

func (g *DataGenerator) step(width float64) float64 {
	return (g.rng.Float64()*2 - 1) * width
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
