package messages

import "time"

// IrrigationAdviceEvent is published by the advisor to record WHAT was
// recommended and under WHICH conditions. The record is intentionally flat:
// the persistence side stores original inputs and outputs together without
// knowing anything about the inference internals.
type IrrigationAdviceEvent struct {
	FieldID   string `json:"field_id"`
	StationID string `json:"station_id"`
	Plant     string `json:"plant"`

	// inputs
	Temperature     float64 `json:"temperature"`
	SoilHumidity    float64 `json:"soil_humidity"`
	RainProbability float64 `json:"rain_probability"`
	AirHumidity     float64 `json:"air_humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	Adjustment      float64 `json:"plant_adjustment"`

	// outputs
	DurationMin     float64 `json:"duration_min"`
	FrequencyPerDay float64 `json:"frequency_per_day"`
	Confidence      float64 `json:"confidence"`

	Timestamp time.Time `json:"timestamp"`
}
