package event

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// EventToPoint normalizes a CommonEvent into an Influx point on the shared
// "advice_event" measurement.
func EventToPoint(evt CommonEvent) *write.Point {
	tags := map[string]string{
		"event_type":     evt.EventType,
		"source_service": evt.SourceService,
		"severity":       evt.Severity,
	}
	if evt.FieldID != "" {
		tags["field_id"] = evt.FieldID
	}
	if evt.StationID != "" {
		tags["station_id"] = evt.StationID
	}

	fields := map[string]interface{}{}
	for k, v := range evt.Fields {
		fields[k] = v
	}
	// a point needs at least one field
	if _, ok := fields["count"]; !ok {
		fields["count"] = int64(1)
	}

	return influxdb2.NewPoint("advice_event", tags, fields, evt.Timestamp)
}
