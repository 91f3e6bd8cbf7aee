package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	persistencepkg "github.com/tommy260803/Sistema-experto-de-Riego/internal/services/persistence"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASSWORD", "guest"),
		ClientID: env("MQTT_CLIENT_ID", "persistence-service"),
	}
	topic := env("AGGREGATED_SUB_TOPIC", "reading/aggregated/#")

	mqClient, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}
	consumer := mqttbus.NewConsumer(mqClient, topic, nil)

	influxURL := env("INFLUX_URL", "http://localhost:8086")
	influxClient := influxdb2.NewClient(influxURL, env("INFLUX_TOKEN", ""))
	influxCfg := persistencepkg.InfluxConfig{
		InfluxURL:    influxURL,
		InfluxToken:  env("INFLUX_TOKEN", ""),
		InfluxOrg:    env("INFLUX_ORG", "org"),
		InfluxBucket: env("INFLUX_BUCKET", "environment-data"),
		Measurement:  env("MEASUREMENT", "environment"),
	}

	svc, err := persistencepkg.NewService(consumer, influxClient, influxCfg)
	if err != nil {
		log.Fatalf("persistence init failed: %v", err)
	}

	mux := persistencepkg.NewHTTPMux(svc)
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ready": true})
	})

	httpPort := env("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("persistence HTTP listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	go svc.Start(ctx)

	<-ctx.Done()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	influxClient.Close()
	log.Println("persistence: shutdown complete")
}
