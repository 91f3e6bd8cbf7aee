package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/model"
	"github.com/tommy260803/Sistema-experto-de-Riego/pkg/mqttbus"
)

type InfluxConfig struct {
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
	Measurement  string
}

// Service stores aggregated environment readings in InfluxDB and keeps the
// latest reading per station in memory, so /data/latest still answers when
// Influx is down.
type Service struct {
	consumer    mqttbus.IConsumer[model.EnvironmentReading]
	writeAPI    api.WriteAPIBlocking
	queryAPI    api.QueryAPI
	bucket      string
	measurement string

	cacheMu sync.RWMutex
	latest  map[string]model.EnvironmentReading // key = station id
}

func NewService(consumer mqttbus.IConsumer[model.EnvironmentReading], client influxdb2.Client, cfg InfluxConfig) (*Service, error) {
	if cfg.InfluxURL == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	measurement := cfg.Measurement
	if measurement == "" {
		measurement = "environment"
	}
	return &Service{
		consumer:    consumer,
		writeAPI:    client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		queryAPI:    client.QueryAPI(cfg.InfluxOrg),
		bucket:      cfg.InfluxBucket,
		measurement: sanitizeMeasurement(measurement),
		latest:      make(map[string]model.EnvironmentReading),
	}, nil
}

func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(func(topic string, msg mqtt.Message) error {
		var m model.EnvironmentReading
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("persistence: invalid JSON on %s: %v", topic, err)
			return nil // keep the stream moving
		}
		return s.store(ctx, m)
	})

	s.consumer.ConsumeMessage(ctx)
}

func (s *Service) store(ctx context.Context, m model.EnvironmentReading) error {
	t := m.Timestamp
	if t.IsZero() {
		t = time.Now().UTC()
	}

	m.Timestamp = t
	s.cacheLatest(m)

	tags := map[string]string{
		"field_id":   m.FieldID,
		"station_id": m.StationID,
	}
	fields := map[string]interface{}{
		"temperature":      m.Temperature,
		"soil_humidity":    m.SoilHumidity,
		"rain_probability": m.RainProbability,
		"air_humidity":     m.AirHumidity,
		"wind_speed":       m.WindSpeed,
		"aggregated":       m.Aggregated,
	}
	point := influxdb2.NewPoint(s.measurement, tags, fields, t)

	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("persistence: write error: %v", err)
		return err
	}
	return nil
}

// cacheLatest keeps the newest reading per station. Out-of-order deliveries
// never roll the cache backwards.
func (s *Service) cacheLatest(m model.EnvironmentReading) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if prev, ok := s.latest[m.StationID]; !ok || m.Timestamp.After(prev.Timestamp) {
		s.latest[m.StationID] = m
	}
}

// LatestCache snapshots the in-memory latest reading per station.
func (s *Service) LatestCache() []model.EnvironmentReading {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	out := make([]model.EnvironmentReading, 0, len(s.latest))
	for _, v := range s.latest {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out
}

// QueryLatestFromInflux returns the newest reading per station within the
// last `minutes`.
func (s *Service) QueryLatestFromInflux(ctx context.Context, minutes int) ([]model.EnvironmentReading, error) {
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group(columns: ["station_id"])
  |> sort(columns: ["_time"], desc: true)
  |> first(column: "_time")`, s.bucket, minutes, s.measurement)

	res, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	var out []model.EnvironmentReading
	for res.Next() {
		rec := res.Record()
		r := model.EnvironmentReading{
			StationID: asString(rec.ValueByKey("station_id")),
			FieldID:   asString(rec.ValueByKey("field_id")),
			Timestamp: rec.Time(),
		}
		r.Temperature = asFloat(rec.ValueByKey("temperature"))
		r.SoilHumidity = asFloat(rec.ValueByKey("soil_humidity"))
		r.RainProbability = asFloat(rec.ValueByKey("rain_probability"))
		r.AirHumidity = asFloat(rec.ValueByKey("air_humidity"))
		r.WindSpeed = asFloat(rec.ValueByKey("wind_speed"))
		if b, ok := rec.ValueByKey("aggregated").(bool); ok {
			r.Aggregated = b
		}
		out = append(out, r)
	}
	if res.Err() != nil {
		return nil, res.Err()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	}
	return 0
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
