package event

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	msg "github.com/tommy260803/Sistema-experto-de-Riego/internal/model/messages"
)

const adviceTopicPrefix = "event/irrigationAdvice/"

// lowConfidence marks advice records worth reviewing.
const lowConfidence = 0.4

// CommonEvent is the storage-side view of a published event: typed, tagged
// with the originating service and flattened into Influx-ready fields.
type CommonEvent struct {
	EventType     string // irrigation.advice
	SourceService string // advisor
	FieldID       string
	StationID     string
	Severity      string // info|warning
	Fields        map[string]interface{}
	Timestamp     time.Time
}

// MQTTHandler turns MQTT messages into CommonEvents and hands them to a sink.
type MQTTHandler struct{ sink func(CommonEvent) }

func NewMQTTHandler(sink func(CommonEvent)) *MQTTHandler { return &MQTTHandler{sink: sink} }

func (h *MQTTHandler) Handle(_ string, m mqtt.Message) error {
	topic := m.Topic()
	if !strings.HasPrefix(topic, adviceTopicPrefix) {
		return nil // ignore other topics
	}

	evt, err := decodeAdvice(topic, m.Payload())
	if err != nil {
		return err
	}
	if h.sink != nil {
		h.sink(evt)
	}
	return nil
}

func decodeAdvice(topic string, payload []byte) (CommonEvent, error) {
	var a msg.IrrigationAdviceEvent
	if err := json.Unmarshal(payload, &a); err != nil {
		return CommonEvent{}, err
	}
	fieldID, stationID := pickIDs(topic, a.FieldID, a.StationID, adviceTopicPrefix)
	if fieldID == "" || stationID == "" {
		return CommonEvent{}, errors.New("advice: missing field/station")
	}
	sev := "info"
	if a.Confidence < lowConfidence {
		sev = "warning"
	}
	return CommonEvent{
		EventType:     "irrigation.advice",
		SourceService: "advisor",
		FieldID:       fieldID,
		StationID:     stationID,
		Severity:      sev,
		Fields: map[string]interface{}{
			"plant":             a.Plant,
			"temperature":       a.Temperature,
			"soil_humidity":     a.SoilHumidity,
			"rain_probability":  a.RainProbability,
			"air_humidity":      a.AirHumidity,
			"wind_speed":        a.WindSpeed,
			"plant_adjustment":  a.Adjustment,
			"duration_min":      a.DurationMin,
			"frequency_per_day": a.FrequencyPerDay,
			"confidence":        a.Confidence,
		},
		Timestamp: a.Timestamp,
	}, nil
}

// pickIDs prefers the payload ids, falling back to "prefix/{field}/{station}".
func pickIDs(topic, fieldID, stationID, prefix string) (string, string) {
	if strings.TrimSpace(fieldID) != "" && strings.TrimSpace(stationID) != "" {
		return fieldID, stationID
	}
	suffix := strings.TrimPrefix(topic, prefix)
	parts := strings.Split(suffix, "/")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return fieldID, stationID
}
