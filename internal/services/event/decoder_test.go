package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	msg "github.com/tommy260803/Sistema-experto-de-Riego/internal/model/messages"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func advicePayload(field, station string, confidence float64) []byte {
	b, _ := json.Marshal(msg.IrrigationAdviceEvent{
		FieldID:         field,
		StationID:       station,
		Plant:           "tomato",
		Temperature:     30,
		SoilHumidity:    20,
		DurationMin:     42.5,
		FrequencyPerDay: 2.8,
		Confidence:      confidence,
		Timestamp:       time.Now().UTC(),
	})
	return b
}

func TestDecodeAdvice(t *testing.T) {
	evt, err := decodeAdvice("event/irrigationAdvice/f1/st1", advicePayload("f1", "st1", 0.8))
	require.NoError(t, err)
	assert.Equal(t, "irrigation.advice", evt.EventType)
	assert.Equal(t, "advisor", evt.SourceService)
	assert.Equal(t, "f1", evt.FieldID)
	assert.Equal(t, "st1", evt.StationID)
	assert.Equal(t, "info", evt.Severity)
	assert.Equal(t, 42.5, evt.Fields["duration_min"])
	assert.Equal(t, 2.8, evt.Fields["frequency_per_day"])
}

func TestDecodeAdviceLowConfidenceIsWarning(t *testing.T) {
	evt, err := decodeAdvice("event/irrigationAdvice/f1/st1", advicePayload("f1", "st1", 0.2))
	require.NoError(t, err)
	assert.Equal(t, "warning", evt.Severity)
}

func TestDecodeAdviceIDsFromTopic(t *testing.T) {
	evt, err := decodeAdvice("event/irrigationAdvice/f9/st4", advicePayload("", "", 0.9))
	require.NoError(t, err)
	assert.Equal(t, "f9", evt.FieldID)
	assert.Equal(t, "st4", evt.StationID)
}

func TestDecodeAdviceRejectsBadJSON(t *testing.T) {
	_, err := decodeAdvice("event/irrigationAdvice/f1/st1", []byte("{nope"))
	assert.Error(t, err)
}

func TestHandlerIgnoresOtherTopics(t *testing.T) {
	var got []CommonEvent
	h := NewMQTTHandler(func(e CommonEvent) { got = append(got, e) })

	require.NoError(t, h.Handle("", &fakeMessage{topic: "reading/raw/f1/st1", payload: []byte("{}")}))
	assert.Empty(t, got)

	require.NoError(t, h.Handle("", &fakeMessage{
		topic:   "event/irrigationAdvice/f1/st1",
		payload: advicePayload("f1", "st1", 0.7),
	}))
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].FieldID)
}

func TestEventToPointTagsAndFields(t *testing.T) {
	evt, err := decodeAdvice("event/irrigationAdvice/f1/st1", advicePayload("f1", "st1", 0.7))
	require.NoError(t, err)

	p := EventToPoint(evt)
	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "irrigation.advice", tags["event_type"])
	assert.Equal(t, "f1", tags["field_id"])
	assert.Equal(t, "st1", tags["station_id"])

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, 42.5, fields["duration_min"])
	assert.Equal(t, "advice_event", p.Name())
}
