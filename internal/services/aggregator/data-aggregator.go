package aggregator

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/model"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

// DataAggregatorService buffers raw environment readings per station and
// periodically republishes the per-variable averages with Aggregated=true.
// The advisor only ever consumes aggregated readings, so a noisy station is
// smoothed before it reaches the inference engine.
type DataAggregatorService struct {
	consumer            mqttbus.IConsumer[model.EnvironmentReading]
	publisher           mqttbus.IPublisher
	buffer              map[string][]model.EnvironmentReading // key is StationID
	mutex               sync.Mutex
	aggregationInterval time.Duration
}

func NewDataAggregatorService(consumer mqttbus.IConsumer[model.EnvironmentReading], publisher mqttbus.IPublisher, aggregationInterval time.Duration) *DataAggregatorService {
	return &DataAggregatorService{
		consumer:            consumer,
		publisher:           publisher,
		aggregationInterval: aggregationInterval,
		buffer:              make(map[string][]model.EnvironmentReading),
	}
}

func (d *DataAggregatorService) messageHandler(_ string, message mqtt.Message) error {
	var reading model.EnvironmentReading
	if err := json.Unmarshal(message.Payload(), &reading); err != nil {
		log.Printf("aggregator: bad reading payload: %v", err)
		return err
	}
	if reading.Aggregated {
		// Never re-buffer our own output.
		return nil
	}

	d.mutex.Lock()
	d.buffer[reading.StationID] = append(d.buffer[reading.StationID], reading)
	d.mutex.Unlock()

	return nil
}

func (d *DataAggregatorService) Start(ctx context.Context) {
	d.consumer.SetHandler(d.messageHandler)
	go d.consumer.ConsumeMessage(ctx)

	ticker := time.NewTicker(d.aggregationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.publisher.Close()
			return
		case <-ticker.C:
			d.aggregateAndPublish()
		}
	}
}

func (d *DataAggregatorService) aggregateAndPublish() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for stationID, readings := range d.buffer {
		if len(readings) == 0 {
			continue
		}

		out := average(readings)
		out.StationID = stationID
		out.Timestamp = time.Now().UTC()

		b, err := json.Marshal(out)
		if err != nil {
			log.Printf("aggregator: marshal err %v", err)
			continue
		}
		topic := "reading/aggregated/" + out.FieldID + "/" + stationID
		if err := d.publisher.PublishToQos(topic, 1, false, string(b)); err != nil {
			log.Printf("aggregator: publish err %v", err)
		} else {
			log.Printf("aggregator: published for %s (%d readings)", stationID, len(readings))
		}

		d.buffer[stationID] = readings[:0]
	}
}

// average folds a window of raw readings into one aggregated reading. The
// field id is taken from the first reading; a station never changes field
// mid-window.
func average(readings []model.EnvironmentReading) model.EnvironmentReading {
	var t, s, r, a, w float64
	for _, x := range readings {
		t += x.Temperature
		s += x.SoilHumidity
		r += x.RainProbability
		a += x.AirHumidity
		w += x.WindSpeed
	}
	n := float64(len(readings))
	return model.EnvironmentReading{
		FieldID:         readings[0].FieldID,
		Temperature:     round1(t / n),
		SoilHumidity:    round1(s / n),
		RainProbability: round1(r / n),
		AirHumidity:     round1(a / n),
		WindSpeed:       round1(w / n),
		Aggregated:      true,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
