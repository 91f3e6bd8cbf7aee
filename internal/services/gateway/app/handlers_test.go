package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/fuzzy"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/knowledge"
)

func newTestGateway(t *testing.T, cfg Config) *Gateway {
	t.Helper()
	engine, err := fuzzy.New()
	require.NoError(t, err)
	return NewGateway(cfg, engine, knowledge.DefaultCatalog(), nil)
}

func postRecommendation(t *testing.T, gw *Gateway, url string, req RecommendationRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	w := httptest.NewRecorder()
	gw.HandleRecommendation(w, r)
	return w
}

func TestRecommendationHappyPath(t *testing.T) {
	gw := newTestGateway(t, Config{})

	w := postRecommendation(t, gw, "/api/recommendation", RecommendationRequest{
		Plant:           "tomato",
		Temperature:     35,
		SoilHumidity:    10,
		RainProbability: 5,
		AirHumidity:     30,
		WindSpeed:       10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.DurationMin, 30.0, "hot dry conditions call for long irrigation")
	assert.Equal(t, 1.2, resp.PlantAdjustment)
	assert.NotEmpty(t, resp.Activations)
	assert.Contains(t, resp.PlantAdvice, "below optimum")
	assert.GreaterOrEqual(t, resp.WaterSavingLWeek, 0.0)
	assert.Empty(t, resp.Explanation)
}

func TestRecommendationValidation(t *testing.T) {
	gw := newTestGateway(t, Config{})

	cases := []RecommendationRequest{
		{Temperature: 46, SoilHumidity: 50, RainProbability: 50, AirHumidity: 50, WindSpeed: 10},
		{Temperature: -1, SoilHumidity: 50, RainProbability: 50, AirHumidity: 50, WindSpeed: 10},
		{Temperature: 25, SoilHumidity: 101, RainProbability: 50, AirHumidity: 50, WindSpeed: 10},
		{Temperature: 25, SoilHumidity: 50, RainProbability: -2, AirHumidity: 50, WindSpeed: 10},
		{Temperature: 25, SoilHumidity: 50, RainProbability: 50, AirHumidity: 120, WindSpeed: 10},
		{Temperature: 25, SoilHumidity: 50, RainProbability: 50, AirHumidity: 50, WindSpeed: 51},
	}
	for _, c := range cases {
		w := postRecommendation(t, gw, "/api/recommendation", c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRecommendationMethodAndBody(t *testing.T) {
	gw := newTestGateway(t, Config{})

	r := httptest.NewRequest(http.MethodGet, "/api/recommendation", nil)
	w := httptest.NewRecorder()
	gw.HandleRecommendation(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/api/recommendation", strings.NewReader("{broken"))
	w = httptest.NewRecorder()
	gw.HandleRecommendation(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationExplainModes(t *testing.T) {
	gw := newTestGateway(t, Config{})
	req := RecommendationRequest{
		Plant: "cactus", Temperature: 30, SoilHumidity: 20,
		RainProbability: 10, AirHumidity: 30, WindSpeed: 5,
	}

	w := postRecommendation(t, gw, "/api/recommendation?explain=simple", req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Explanation, "Duration:")

	w = postRecommendation(t, gw, "/api/recommendation?explain=traceable", req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Explanation, "DECISION TRACE")
	assert.Contains(t, resp.Explanation, "Applied rules:")
}

func TestRecommendationUnknownPlantIsNeutral(t *testing.T) {
	gw := newTestGateway(t, Config{})
	w := postRecommendation(t, gw, "/api/recommendation", RecommendationRequest{
		Plant: "dragonfruit", Temperature: 25, SoilHumidity: 60,
		RainProbability: 30, AirHumidity: 50, WindSpeed: 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.PlantAdjustment)
	assert.Empty(t, resp.PlantAdvice)
}

func TestDashboardAggregatesUpstreams(t *testing.T) {
	persistence := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]StationLatest{
			{StationID: "st2", FieldID: "f1", SoilHumidity: 60},
			{StationID: "st1", FieldID: "f1", SoilHumidity: 40},
		})
	}))
	defer persistence.Close()
	events := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]AdviceLatest{
			{StationID: "st1", DurationMin: 25, FrequencyPerDay: 2, Confidence: 0.8},
		})
	}))
	defer events.Close()

	gw := newTestGateway(t, Config{
		PersistenceBaseURL: persistence.URL,
		PersistencePath:    "/data/latest",
		EventsBaseURL:      events.URL,
		EventsPath:         "/advice/latest",
		HTTPTimeout:        2 * time.Second,
		BreakerFailures:    3,
		BreakerOpenFor:     time.Second,
	})

	w := httptest.NewRecorder()
	gw.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard/data", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data DashboardData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	require.Len(t, data.Stations, 2)
	assert.Equal(t, "st1", data.Stations[0].StationID, "stations sorted by id")
	require.Len(t, data.Advices, 1)
	assert.Equal(t, 50.0, data.Stats["soil_mean"])
	assert.Equal(t, 40.0, data.Stats["soil_min"])
	assert.Equal(t, 60.0, data.Stats["soil_max"])
}

func TestDashboardServesLastGoodOnUpstreamFailure(t *testing.T) {
	healthy := true
	persistence := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]StationLatest{{StationID: "st1", SoilHumidity: 42}})
	}))
	defer persistence.Close()

	gw := newTestGateway(t, Config{
		PersistenceBaseURL: persistence.URL,
		PersistencePath:    "/data/latest",
		HTTPTimeout:        2 * time.Second,
		BreakerFailures:    5,
		BreakerOpenFor:     time.Second,
	})

	w := httptest.NewRecorder()
	gw.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard/data", nil))
	require.Equal(t, http.StatusOK, w.Code)

	healthy = false
	w = httptest.NewRecorder()
	gw.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard/data", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data DashboardData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	require.Len(t, data.Stations, 1, "last good snapshot survives the outage")
	assert.Equal(t, 42.0, data.Stations[0].SoilHumidity)
}

func TestEstimateWaterSaving(t *testing.T) {
	// Baseline schedule saves nothing.
	assert.Equal(t, 0.0, EstimateWaterSaving(60, 3))
	// No irrigation at all saves the full weekly base.
	assert.Equal(t, 700.0, EstimateWaterSaving(0, 0))
	// Half the baseline saves half.
	assert.Equal(t, 350.0, EstimateWaterSaving(30, 3))
	// Inputs clamp to the engine domains.
	assert.Equal(t, 0.0, EstimateWaterSaving(120, 9))
}
