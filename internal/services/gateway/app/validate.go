package app

import "fmt"

// ValidateRequest checks the user-facing input ranges. The API accepts a
// narrower temperature band than the engine domain: manual readings above
// 45 degC are almost always sensor mistakes.
func ValidateRequest(r RecommendationRequest) error {
	if r.Temperature < 0 || r.Temperature > 45 {
		return fmt.Errorf("temperature must be between 0 and 45 degC")
	}
	if r.SoilHumidity < 0 || r.SoilHumidity > 100 {
		return fmt.Errorf("soil humidity must be between 0 and 100%%")
	}
	if r.RainProbability < 0 || r.RainProbability > 100 {
		return fmt.Errorf("rain probability must be between 0 and 100%%")
	}
	if r.AirHumidity < 0 || r.AirHumidity > 100 {
		return fmt.Errorf("air humidity must be between 0 and 100%%")
	}
	if r.WindSpeed < 0 || r.WindSpeed > 50 {
		return fmt.Errorf("wind speed must be between 0 and 50 km/h")
	}
	return nil
}

// EstimateWaterSaving is a rough liters-per-week saving versus a fixed
// baseline schedule of 60 min x 3 irrigations/day at 100 L/day.
func EstimateWaterSaving(durationMin, frequencyPerDay float64) float64 {
	const base = 60.0 * 3.0
	const litersPerDayBase = 100.0

	d := clamp(durationMin, 0, 60)
	f := clamp(frequencyPerDay, 0, 4)
	rel := (base - d*f) / base
	if rel < 0 {
		rel = 0
	}
	return round1(rel * litersPerDayBase * 7)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
