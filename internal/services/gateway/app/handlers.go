package app

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/fuzzy"
)

// HandleRecommendation serves POST /api/recommendation. The optional
// ?explain=simple|traceable query adds a textual trace to the response.
func (g *Gateway) HandleRecommendation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		g.metrics.observe("recommendation", strconv.Itoa(status), time.Since(start))
	}()

	if r.Method != http.MethodPost {
		status = http.StatusMethodNotAllowed
		httpError(w, status, "POST only")
		return
	}

	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		httpError(w, status, "invalid JSON body: "+err.Error())
		return
	}
	if err := ValidateRequest(req); err != nil {
		status = http.StatusBadRequest
		httpError(w, status, err.Error())
		return
	}

	adjustment := g.catalog.Adjustment(req.Plant)
	out := g.engine.CalculateIrrigation(
		req.Temperature,
		req.SoilHumidity,
		req.RainProbability,
		req.AirHumidity,
		req.WindSpeed,
		adjustment,
	)

	resp := RecommendationResponse{
		DurationMin:      out.Duration,
		FrequencyPerDay:  out.Frequency,
		Confidence:       out.Confidence,
		Activations:      out.Activations,
		PlantAdjustment:  adjustment,
		WaterSavingLWeek: EstimateWaterSaving(out.Duration, out.Frequency),
	}
	if advice, ok := g.catalog.Advise(req.Plant, req.SoilHumidity, req.Temperature); ok {
		resp.PlantAdvice = advice
	}

	switch r.URL.Query().Get("explain") {
	case "simple":
		resp.Explanation = g.engine.ExplainDecision(out.Duration, out.Frequency, out.Activations)
	case "traceable":
		resp.Explanation = g.engine.ExplainDecisionTraceable(fuzzy.Input{
			Temperature:     req.Temperature,
			SoilHumidity:    req.SoilHumidity,
			RainProbability: req.RainProbability,
			AirHumidity:     req.AirHumidity,
			WindSpeed:       req.WindSpeed,
			PlantAdjustment: adjustment,
		}, out)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleDashboard serves GET /dashboard/data: latest station readings and
// advice events fetched in parallel, each behind its own breaker with a
// last-good fallback.
func (g *Gateway) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		g.metrics.observe("dashboard", "200", time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	type res struct {
		key string
		val any
		err error
	}
	ch := make(chan res, 2)

	go func() {
		var stations []StationLatest
		err := g.persistence.GetJSON(ctx, &stations)
		ch <- res{"stations", stations, err}
	}()
	go func() {
		var advices []AdviceLatest
		err := g.events.GetJSON(ctx, &advices)
		ch <- res{"advices", advices, err}
	}()

	data := DashboardData{
		Stations: []StationLatest{},
		Advices:  []AdviceLatest{},
		Stats:    map[string]float64{},
	}

	for i := 0; i < 2; i++ {
		rv := <-ch
		switch rv.key {
		case "stations":
			stations, _ := rv.val.([]StationLatest)
			if rv.err == nil && len(stations) > 0 {
				data.Stations = stations
				g.mu.Lock()
				g.lastStations = stations
				g.mu.Unlock()
			} else {
				g.mu.RLock()
				data.Stations = g.lastStations
				g.mu.RUnlock()
				if rv.err != nil {
					g.cfg.Logger.Printf("dashboard: persistence unavailable (%v), serving last good", rv.err)
				}
			}
		case "advices":
			advices, _ := rv.val.([]AdviceLatest)
			if rv.err == nil && len(advices) > 0 {
				data.Advices = advices
				g.mu.Lock()
				g.lastAdvices = advices
				g.mu.Unlock()
			} else {
				g.mu.RLock()
				data.Advices = g.lastAdvices
				g.mu.RUnlock()
				if rv.err != nil {
					g.cfg.Logger.Printf("dashboard: events unavailable (%v), serving last good", rv.err)
				}
			}
		}
	}
	if data.Stations == nil {
		data.Stations = []StationLatest{}
	}
	if data.Advices == nil {
		data.Advices = []AdviceLatest{}
	}

	sort.Slice(data.Stations, func(i, j int) bool { return data.Stations[i].StationID < data.Stations[j].StationID })
	if n := len(data.Stations); n > 0 {
		var sum float64
		minv, maxv := math.MaxFloat64, -math.MaxFloat64
		for _, s := range data.Stations {
			v := s.SoilHumidity
			sum += v
			if v < minv {
				minv = v
			}
			if v > maxv {
				maxv = v
			}
		}
		data.Stats["soil_mean"] = round1(sum / float64(n))
		data.Stats["soil_min"] = minv
		data.Stats["soil_max"] = maxv
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)

	g.cfg.Logger.Printf("GET /dashboard/data [%dms] cb[pers]=%v cb[ev]=%v stations=%d advices=%d",
		time.Since(start).Milliseconds(), g.persistence.State(), g.events.State(),
		len(data.Stations), len(data.Advices))
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
