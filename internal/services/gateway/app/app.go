package app

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tommy260803/Sistema-experto-de-Riego/internal/fuzzy"
	"github.com/tommy260803/Sistema-experto-de-Riego/internal/knowledge"
)

type Config struct {
	PersistenceBaseURL string
	EventsBaseURL      string
	PersistencePath    string
	EventsPath         string
	HTTPTimeout        time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration

	Logger *log.Logger
}

// Gateway is the public face of the system: it answers on-demand
// recommendation requests with the embedded engine and assembles the
// dashboard from the persistence and event services.
type Gateway struct {
	cfg     Config
	engine  *fuzzy.Engine
	catalog *knowledge.Catalog

	persistence *Upstream
	events      *Upstream

	// last-good dashboard pieces, served while a breaker is open
	mu           sync.RWMutex
	lastStations []StationLatest
	lastAdvices  []AdviceLatest

	metrics *Metrics
}

func NewGateway(cfg Config, engine *fuzzy.Engine, catalog *knowledge.Catalog, reg prometheus.Registerer) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 3 * time.Second
	}
	if catalog == nil {
		catalog = knowledge.DefaultCatalog()
	}

	p := NewUpstream("persistence", cfg.PersistenceBaseURL, cfg.PersistencePath, cfg.HTTPTimeout, cfg.BreakerFailures, cfg.BreakerOpenFor)
	e := NewUpstream("events", cfg.EventsBaseURL, cfg.EventsPath, cfg.HTTPTimeout, cfg.BreakerFailures, cfg.BreakerOpenFor)

	return &Gateway{
		cfg:         cfg,
		engine:      engine,
		catalog:     catalog,
		persistence: p,
		events:      e,
		metrics:     NewGatewayMetrics(reg),
	}
}
