package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/fuzzy"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/knowledge"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/services/gateway/app"
)

func main() {
	cfg := loadConfig()

	engine, err := fuzzy.New(fuzzy.WithCacheCapacity(cfg.CacheCapacity))
	if err != nil {
		log.Fatalf("engine init: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	gw := app.NewGateway(app.Config{
		PersistenceBaseURL: cfg.PersistenceURL,
		PersistencePath:    cfg.PersistencePath,
		EventsBaseURL:      cfg.EventURL,
		EventsPath:         cfg.EventPath,
		HTTPTimeout:        cfg.timeout(),
		BreakerFailures:    cfg.BreakerFailures,
		BreakerOpenFor:     cfg.breakerOpenFor(),
	}, engine, knowledge.DefaultCatalog(), reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/recommendation", gw.HandleRecommendation)
	mux.HandleFunc("/dashboard/data", gw.HandleDashboard)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("gateway listening on %s", srv.Addr)
	log.Fatal(srv.ListenAndServe())
}
