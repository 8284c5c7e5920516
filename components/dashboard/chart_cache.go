package dashboard

import (
	"maps"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML by key. An entry stored under a
// different version is stale and gets replaced.
type RenderCache interface {
	GetOrRender(key, version string, render func() (string, error)) (string, error)
}

// ChartCache keeps rendered charts in memory for a fixed TTL. Failed renders
// are not cached.
type ChartCache struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	charts map[string]cachedChart
}

type cachedChart struct {
	html    string
	version string
	expires time.Time
}

func (c cachedChart) expired(at time.Time) bool {
	return at.After(c.expires)
}

// NewChartCache builds a cache. A ttl <= 0 renders on every call.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, now: time.Now, charts: map[string]cachedChart{}}
}

func (c *ChartCache) enabled() bool {
	return c != nil && c.ttl > 0
}

// GetOrRender returns the live entry for key when it matches version, or
// renders and stores a new one. Each key holds a single entry and every store
// sweeps expired charts. Concurrent misses on one key may render more than
// once.
func (c *ChartCache) GetOrRender(key, version string, render func() (string, error)) (string, error) {
	if !c.enabled() {
		return render()
	}
	c.mu.Lock()
	hit, ok := c.charts[key]
	c.mu.Unlock()
	if ok && hit.version == version && !hit.expired(c.now()) {
		return hit.html, nil
	}

	html, err := render()
	if err != nil {
		return "", err
	}
	now := c.now()
	c.mu.Lock()
	c.sweep(now)
	c.charts[key] = cachedChart{html: html, version: version, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return html, nil
}

// Len evicts expired charts and reports how many remain.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(now)
	return len(c.charts)
}

// sweep drops expired charts. Callers hold mu.
func (c *ChartCache) sweep(now time.Time) {
	maps.DeleteFunc(c.charts, func(_ string, chart cachedChart) bool { return chart.expired(now) })
}

// Purge drops every chart, e.g. after the dataset behind them changed.
func (c *ChartCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	clear(c.charts)
	c.mu.Unlock()
}
