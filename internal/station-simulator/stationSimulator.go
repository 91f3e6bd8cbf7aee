package station_simulator

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

// StationSimulator publishes synthetic environment readings for one station
// at a fixed interval.
type StationSimulator struct {
	stationID string
	fieldID   string
	generator *DataGenerator
	publisher mqttbus.IPublisher
}

func NewStationSimulator(publisher mqttbus.IPublisher, gen *DataGenerator, stationID, fieldID string) *StationSimulator {
	return &StationSimulator{
		stationID: stationID,
		fieldID:   fieldID,
		generator: gen,
		publisher: publisher,
	}
}

// Start publishes a reading every interval until ctx is cancelled.
func (s *StationSimulator) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-ticker.C:
			reading := s.generator.Next(s.stationID, s.fieldID)
			log.Printf("station: pub raw field=%s station=%s temp=%.1f soil=%.1f%%",
				reading.FieldID, reading.StationID, reading.Temperature, reading.SoilHumidity)
			payload, err := json.Marshal(reading)
			if err != nil {
				log.Printf("station: marshal error: %v", err)
				continue
			}
			if err := s.publisher.PublishMessage(string(payload)); err != nil {
				log.Printf("station: publish error: %v", err)
			}
		}
	}
}
