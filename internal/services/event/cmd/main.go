package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/services/event"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/dedup"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	cfg := struct {
		Mqtt mqttbus.Config

		InfluxURL    string
		InfluxToken  string
		InfluxOrg    string
		InfluxBucket string

		Topic         string
		BatchSize     int
		FlushInterval time.Duration

		HTTPPort       int
		ReadinessGrace time.Duration
	}{
		Mqtt: mqttbus.Config{
			Host:     envStr("MQTT_HOST", "localhost"),
			Port:     envInt("MQTT_PORT", 1883),
			User:     envStr("MQTT_USER", "guest"),
			Password: envStr("MQTT_PASSWORD", "guest"),
			ClientID: envStr("HOSTNAME", "event-service"),
		},

		InfluxURL:    envStr("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    envStr("INFLUX_ORG", "org"),
		InfluxBucket: envStr("INFLUX_BUCKET", "events"),

		Topic:         envStr("EVENT_SUB_TOPIC", "event/irrigationAdvice/#"),
		BatchSize:     envInt("WRITE_BATCH_SIZE", 10),
		FlushInterval: time.Duration(envInt("WRITE_FLUSH_INTERVAL_MS", 200)) * time.Millisecond,

		HTTPPort:       envInt("HTTP_PORT", 8080),
		ReadinessGrace: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	influx := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken, opts)
	defer influx.Close()
	writeAPI := influx.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket)
	writer := event.NewWriter(writeAPI)

	mqttClient, err := mqttbus.NewConn(&cfg.Mqtt, ctx)
	if err != nil {
		log.Fatalf("mqtt connection error: %v", err)
	}
	defer mqttbus.CloseConn(mqttClient)

	mux := http.NewServeMux()
	mux.Handle("/healthz", event.NewHealthHandler(mqttClient, influx, writer))
	mux.Handle("/readyz", event.NewReadyHandler(mqttClient, influx, writer, 2*time.Second))

	// The gateway dashboard reads this:
	// GET /advice/latest?limit=20[&minutes=1440]
	mux.Handle("/advice/latest", event.NewAdviceLatestHandler(influx, cfg.InfluxOrg, cfg.InfluxBucket))

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("event-svc: HTTP listening on :%d", cfg.HTTPPort)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	h := event.NewMQTTHandler(func(evt event.CommonEvent) {
		writeAPI.WritePoint(event.EventToPoint(evt))
		writer.MarkIngest(evt.EventType)
	})

	// advice travels at QoS1, dedup redeliveries by payload hash
	d := dedup.New(10*time.Minute, 20000)

	log.Printf("event-svc: subscribing to %s", cfg.Topic)
	if token := mqttClient.Subscribe(cfg.Topic, 1, func(_ mqtt.Client, m mqtt.Message) {
		hh := sha256.Sum256(m.Payload())
		if !d.ShouldProcess(hex.EncodeToString(hh[:])) {
			return
		}
		if err := h.Handle("", m); err != nil {
			log.Printf("event-svc: decode error on %s: %v", m.Topic(), err)
		}
	}); token.Wait() && token.Error() != nil {
		log.Fatalf("subscribe error on %s: %v", cfg.Topic, token.Error())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Printf("event-svc: shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), cfg.ReadinessGrace)
	defer shCancel()
	_ = hs.Shutdown(shCtx)

	// let the async writer flush
	time.Sleep(cfg.FlushInterval + 100*time.Millisecond)
}
