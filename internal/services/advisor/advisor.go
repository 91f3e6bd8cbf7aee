package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/fuzzy"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/knowledge"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/model"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/model/messages"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/dedup"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

const adviceTopicTmpl = "event/irrigationAdvice/{field}/{station}"

// lowConfidence marks recommendations worth a second look by an operator.
const lowConfidence = 0.4

// Advisor consumes aggregated environment readings, runs the fuzzy engine
// with the field's plant adjustment and publishes an advice event per
// reading. Advice is at-least-once; consumers dedup by payload hash.
type Advisor struct {
	consumer  mqttbus.IConsumer[model.EnvironmentReading]
	publisher mqttbus.IPublisher
	engine    *fuzzy.Engine
	catalog   *knowledge.Catalog
	plants    map[string]string // field -> plant name
	deduper   *dedup.Deduper
	metrics   *Metrics
}

func NewAdvisor(
	consumer mqttbus.IConsumer[model.EnvironmentReading],
	publisher mqttbus.IPublisher,
	engine *fuzzy.Engine,
	catalog *knowledge.Catalog,
	plants map[string]string,
	metrics *Metrics,
) *Advisor {
	a := &Advisor{
		consumer:  consumer,
		publisher: publisher,
		engine:    engine,
		catalog:   catalog,
		plants:    plants,
		deduper:   dedup.New(10*time.Minute, 20000),
		metrics:   metrics,
	}
	if consumer != nil {
		consumer.SetHandler(a.handleAggregated)
	}
	return a
}

func (a *Advisor) Start(ctx context.Context) {
	go a.consumer.ConsumeMessage(ctx)
	<-ctx.Done()
	a.publisher.Close()
}

// handleAggregated runs one reading through the engine. Redeliveries are
// dropped by payload hash before unmarshalling.
func (a *Advisor) handleAggregated(_ string, msg mqtt.Message) error {
	h := sha256.Sum256(msg.Payload())
	if a.deduper != nil && !a.deduper.ShouldProcess(hex.EncodeToString(h[:])) {
		return nil
	}

	var reading model.EnvironmentReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.Printf("advisor: bad payload: %v", err)
		return nil
	}
	if !reading.Aggregated {
		return nil
	}

	plant := a.plantFor(reading.FieldID)
	adjustment := a.catalog.Adjustment(plant)

	start := time.Now()
	out := a.engine.CalculateIrrigation(
		reading.Temperature,
		reading.SoilHumidity,
		reading.RainProbability,
		reading.AirHumidity,
		reading.WindSpeed,
		adjustment,
	)
	if a.metrics != nil {
		a.metrics.ObserveInference(time.Since(start))
		a.metrics.CountDecision(reading.FieldID)
		if out.Confidence < lowConfidence {
			a.metrics.CountLowConfidence(reading.FieldID)
		}
	}

	evt := messages.IrrigationAdviceEvent{
		FieldID:         reading.FieldID,
		StationID:       reading.StationID,
		Plant:           plant,
		Temperature:     reading.Temperature,
		SoilHumidity:    reading.SoilHumidity,
		RainProbability: reading.RainProbability,
		AirHumidity:     reading.AirHumidity,
		WindSpeed:       reading.WindSpeed,
		Adjustment:      adjustment,
		DurationMin:     out.Duration,
		FrequencyPerDay: out.Frequency,
		Confidence:      out.Confidence,
		Timestamp:       time.Now().UTC(),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		log.Printf("advisor: marshal advice: %v", err)
		return nil
	}

	topic := strings.NewReplacer(
		"{field}", reading.FieldID,
		"{station}", reading.StationID,
	).Replace(adviceTopicTmpl)

	if err := a.publisher.PublishToQos(topic, 1, false, string(b)); err != nil {
		log.Printf("advisor: publish advice error: %v", err)
		return err
	}
	log.Printf("advice: %s/%s plant=%s dur=%.1fmin freq=%.1f/day conf=%.2f",
		reading.FieldID, reading.StationID, plant, out.Duration, out.Frequency, out.Confidence)
	return nil
}

func (a *Advisor) plantFor(fieldID string) string {
	if p, ok := a.plants[fieldID]; ok {
		return p
	}
	return ""
}

// ParseFieldPlants parses "field1=tomato,field2=cactus" style mappings.
func ParseFieldPlants(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		field := strings.TrimSpace(kv[0])
		plant := strings.TrimSpace(kv[1])
		if field != "" && plant != "" {
			out[field] = plant
		}
	}
	return out
}
