package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/fuzzy"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/knowledge"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/services/advisor"
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
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host := env("MQTT_HOST", "localhost")
	port := envInt("MQTT_PORT", 1883)
	user := env("MQTT_USER", "guest")
	pass := env("MQTT_PASSWORD", "guest")
	clientID := fmt.Sprintf("Advisor-%s", env("HOSTNAME", "local"))

	cfg := &mqttbus.Config{Host: host, Port: port, User: user, Password: pass, ClientID: clientID}
	client, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	aggregatedSub := env("AGGREGATED_SUB_TOPIC", "reading/aggregated/#")
	consumer := mqttbus.NewConsumer(client, aggregatedSub, nil)
	publisher := mqttbus.NewPublisher(client, "event/irrigationAdvice")

	engine, err := fuzzy.New()
	if err != nil {
		log.Fatalf("engine init: %v", err)
	}

	plants := advisor.ParseFieldPlants(env("FIELD_PLANTS", "field1=tomato"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := advisor.NewMetrics(reg)

	metricsAddr := env("METRICS_ADDR", ":9104")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Printf("advisor: metrics on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("advisor: metrics server stopped: %v", err)
		}
	}()

	svc := advisor.NewAdvisor(consumer, publisher, engine, knowledge.DefaultCatalog(), plants, metrics)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	log.Printf("advisor: running, sub=%s plants=%v", aggregatedSub, plants)
	svc.Start(ctx)
}
