package main

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	TimeoutMs int

	PersistenceURL  string // e.g. http://persistence.cloud:8080
	PersistencePath string
	EventURL        string // e.g. http://event-service.cloud:8080
	EventPath       string

	BreakerFailures int
	BreakerOpenMs   int

	CacheCapacity int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		Port:      getenv("PORT", "5009"),
		TimeoutMs: getenvInt("TIMEOUT_MS", 3000),

		PersistenceURL:  getenv("PERSISTENCE_URL", "http://persistence:8080"),
		PersistencePath: getenv("PERSISTENCE_PATH", "/data/latest"),
		EventURL:        getenv("EVENT_URL", "http://event-service:8080"),
		EventPath:       getenv("EVENT_PATH", "/advice/latest"),

		BreakerFailures: getenvInt("CB_FAILURES", 3),
		BreakerOpenMs:   getenvInt("CB_OPEN_MS", 10000),

		CacheCapacity: getenvInt("ENGINE_CACHE_CAPACITY", 100),
	}
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) breakerOpenFor() time.Duration {
	return time.Duration(c.BreakerOpenMs) * time.Millisecond
}
