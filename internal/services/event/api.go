package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Advice is the payload shape exposed to the gateway.
type Advice struct {
	FieldID         string  `json:"field_id,omitempty"`
	StationID       string  `json:"station_id,omitempty"`
	Plant           string  `json:"plant,omitempty"`
	DurationMin     float64 `json:"duration_min"`
	FrequencyPerDay float64 `json:"frequency_per_day"`
	Confidence      float64 `json:"confidence"`
	Time            string  `json:"time"` // RFC3339
}

type adviceQueryParams struct {
	Minutes   int
	Limit     int
	TimeoutMS int
}

func parseAdviceQuery(r *http.Request, defMin, defLim, defTOms int) adviceQueryParams {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return adviceQueryParams{
		Minutes:   get("minutes", defMin, 1, 7*24*60),
		Limit:     get("limit", defLim, 1, 500),
		TimeoutMS: get("timeout_ms", defTOms, 200, 5000),
	}
}

func buildAdviceFlux(bucket string, minutes, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == "advice_event" and r.event_type == "irrigation.advice")
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> keep(columns: ["_time","field_id","station_id","plant","duration_min","frequency_per_day","confidence"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, minutes, limit)
}

func runAdviceQuery(w http.ResponseWriter, r *http.Request, influx influxdb2.Client, org, bucket string, defMin, defLim int) {
	p := parseAdviceQuery(r, defMin, defLim, 2000)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(p.TimeoutMS)*time.Millisecond)
	defer cancel()

	api := influx.QueryAPI(org)
	res, err := api.Query(ctx, buildAdviceFlux(bucket, p.Minutes, p.Limit))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Error", "influx-query-error")
		_, _ = w.Write([]byte("[]"))
		return
	}
	defer func() { _ = res.Close() }()

	out := make([]Advice, 0, p.Limit)
	for res.Next() {
		rec := res.Record()
		out = append(out, Advice{
			FieldID:         asStr(rec.ValueByKey("field_id")),
			StationID:       asStr(rec.ValueByKey("station_id")),
			Plant:           asStr(rec.ValueByKey("plant")),
			DurationMin:     asNum(rec.ValueByKey("duration_min")),
			FrequencyPerDay: asNum(rec.ValueByKey("frequency_per_day")),
			Confidence:      asNum(rec.ValueByKey("confidence")),
			Time:            rec.Time().UTC().Format(time.RFC3339),
		})
	}
	if res.Err() != nil {
		w.Header().Set("X-Error", "influx-iter-error")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func asStr(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asNum(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// NewAdviceLatestHandler serves GET /advice/latest?limit=20[&minutes=1440].
func NewAdviceLatestHandler(influx influxdb2.Client, org, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runAdviceQuery(w, r, influx, org, bucket, 1440, 20)
	})
}
