package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/model"
)

func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	// GET /data/latest
	// Query params:
	//   source=auto|influx|cache   (default auto: try Influx, fall back to cache)
	//   minutes=<int>              (Influx lookback window, default 1440 = 24h)
	mux.HandleFunc("/data/latest", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		source := strings.ToLower(q.Get("source"))
		if source == "" {
			source = "auto"
		}
		minutes := 60 * 24
		if s := q.Get("minutes"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				minutes = n
			}
		}

		var list []model.EnvironmentReading
		var err error
		var used string

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if source == "influx" || source == "auto" {
			list, err = svc.QueryLatestFromInflux(ctx, minutes)
			if err == nil && len(list) > 0 {
				used = "influx"
			}
		}
		if used == "" {
			list = svc.LatestCache()
			used = "cache"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", used)
		_ = json.NewEncoder(w).Encode(list)
	})

	return mux
}
