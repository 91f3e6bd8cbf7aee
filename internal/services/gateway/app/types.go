package app

// RecommendationRequest is the POST /api/recommendation body.
type RecommendationRequest struct {
	Plant           string  `json:"plant,omitempty"`
	Temperature     float64 `json:"temperature"`
	SoilHumidity    float64 `json:"soil_humidity"`
	RainProbability float64 `json:"rain_probability"`
	AirHumidity     float64 `json:"air_humidity"`
	WindSpeed       float64 `json:"wind_speed"`
}

// RecommendationResponse carries the engine output plus the optional plant
// advisory, explanation and water-saving estimate.
type RecommendationResponse struct {
	DurationMin      float64            `json:"duration_min"`
	FrequencyPerDay  float64            `json:"frequency_per_day"`
	Confidence       float64            `json:"confidence"`
	Activations      map[string]float64 `json:"activations"`
	PlantAdjustment  float64            `json:"plant_adjustment"`
	PlantAdvice      string             `json:"plant_advice,omitempty"`
	Explanation      string             `json:"explanation,omitempty"`
	WaterSavingLWeek float64            `json:"water_saving_liters_week"`
}

// StationLatest mirrors the persistence /data/latest rows.
type StationLatest struct {
	StationID       string  `json:"station_id"`
	FieldID         string  `json:"field_id"`
	Temperature     float64 `json:"temperature"`
	SoilHumidity    float64 `json:"soil_humidity"`
	RainProbability float64 `json:"rain_probability"`
	AirHumidity     float64 `json:"air_humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	Aggregated      bool    `json:"aggregated"`
	Timestamp       string  `json:"timestamp"`
}

// AdviceLatest mirrors the event-service /advice/latest rows.
type AdviceLatest struct {
	FieldID         string  `json:"field_id,omitempty"`
	StationID       string  `json:"station_id,omitempty"`
	Plant           string  `json:"plant,omitempty"`
	DurationMin     float64 `json:"duration_min"`
	FrequencyPerDay float64 `json:"frequency_per_day"`
	Confidence      float64 `json:"confidence"`
	Time            string  `json:"time"`
}

// DashboardData is the combined payload for the UI.
type DashboardData struct {
	Stations []StationLatest    `json:"stations"`
	Advices  []AdviceLatest     `json:"advices"`
	Stats    map[string]float64 `json:"stats"`
}
