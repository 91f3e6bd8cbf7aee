package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Upstream wraps an HTTP GET to a backing service behind a circuit breaker.
type Upstream struct {
	name    string
	base    string
	path    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewUpstream(name, base, path string, timeout time.Duration, failures int, openFor time.Duration) *Upstream {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(failures)
		},
	})
	return &Upstream{
		name:    name,
		base:    base,
		path:    path,
		client:  &http.Client{Timeout: timeout},
		breaker: cb,
	}
}

// GetJSON fetches and decodes the upstream payload through the breaker.
func (u *Upstream) GetJSON(ctx context.Context, out any) error {
	if u == nil || u.base == "" {
		// optional upstream not configured, leave out untouched
		return nil
	}
	_, err := u.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.base+u.path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request error: %w", u.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s upstream status %d", u.name, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s decode error: %w", u.name, err)
		}
		return nil, nil
	})
	return err
}

// State exposes the breaker state for logging.
func (u *Upstream) State() gobreaker.State {
	return u.breaker.State()
}
