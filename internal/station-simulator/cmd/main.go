package main

import (
	"context"
	"flag"
	"log"
	"time"

	stationSimulator "github.com/tommy260803/Sistema-experto-de-Riego/internal/station-simulator"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

func main() {
	stationID := flag.String("station-id", "station1", "unique station identifier")
	fieldID := flag.String("field-id", "field1", "unique field identifier")
	clientID := flag.String("client-id", "stationPublisher1", "MQTT client ID")
	broker := flag.String("broker", "localhost", "MQTT broker host")
	port := flag.Int("port", 1883, "MQTT broker port")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random walk seed")
	flag.Parse()

	cfg := &mqttbus.Config{
		Host:     *broker,
		Port:     *port,
		User:     "guest",
		Password: "guest",
		ClientID: *clientID,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatal(err)
	}

	publisher := mqttbus.NewPublisher(client, "reading/raw/"+*fieldID+"/"+*stationID)
	generator := stationSimulator.NewDataGenerator(*seed)

	sim := stationSimulator.NewStationSimulator(publisher, generator, *stationID, *fieldID)
	sim.Start(ctx, *interval)
}
