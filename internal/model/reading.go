package model

import "time"

// EnvironmentReading is one weather-station observation as it travels over
// MQTT. The five readings feed the fuzzy engine directly; Aggregated marks
// averaged samples produced by the aggregator service.
type EnvironmentReading struct {
	StationID       string    `json:"station_id"`
	FieldID         string    `json:"field_id"`
	Temperature     float64   `json:"temperature"`
	SoilHumidity    float64   `json:"soil_humidity"`
	RainProbability float64   `json:"rain_probability"`
	AirHumidity     float64   `json:"air_humidity"`
	WindSpeed       float64   `json:"wind_speed"`
	Aggregated      bool      `json:"aggregated"`
	Timestamp       time.Time `json:"timestamp"`
}
