package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/services/aggregator"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

func envStr(key, def string) string {
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
	cfg := &mqttbus.Config{
		Host:     envStr("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     envStr("MQTT_USER", "guest"),
		Password: envStr("MQTT_PASSWORD", "guest"),
		ClientID: envStr("MQTT_CLIENT_ID", "dataAggregator1"),
	}
	interval := time.Duration(envInt("AGGREGATION_INTERVAL_SEC", 60)) * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatalf("aggregator: broker connection failed: %v", err)
	}

	publisher := mqttbus.NewPublisher(client, "reading/aggregated")
	consumer := mqttbus.NewConsumer(client, "reading/raw/#", nil)

	svc := aggregator.NewDataAggregatorService(consumer, publisher, interval)

	log.Println("aggregator: service running")
	svc.Start(ctx)
}
