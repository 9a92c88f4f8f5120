// Package assets fetches generated data files from the asset origin and caches them.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/logger"
)

// Asset file names as written by the map generator.
const (
	HeightModel     = "height_model.json"
	HeightNormals   = "height_normals.json"
	BuildingModels  = "building_models.json"
	BuildingNormals = "building_normals.json"
	TileMap         = "map.json"
)

// StatusError is returned when the origin answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Manager fetches assets relative to a base URL.
type Manager struct {
	base   *url.URL
	client *http.Client
	cache  *Cache
}

// NewManager creates a manager for the given origin. A trailing slash is added
// to the base path so asset names resolve beneath it.
func NewManager(baseURL string, timeout time.Duration) (*Manager, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing asset base url %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("asset base url %q: unsupported scheme %q", baseURL, base.Scheme)
	}
	if len(base.Path) == 0 || base.Path[len(base.Path)-1] != '/' {
		base.Path += "/"
	}

	return &Manager{
		base:   base,
		client: &http.Client{Timeout: timeout},
		cache:  NewCache(),
	}, nil
}

// URL returns the absolute URL of an asset.
func (m *Manager) URL(name string) string {
	return m.base.ResolveReference(&url.URL{Path: name}).String()
}

// Load fetches an asset, serving repeated requests from the cache.
func (m *Manager) Load(ctx context.Context, name string) ([]byte, error) {
	u := m.URL(name)
	if data, ok := m.cache.Get(u); ok {
		return data, nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	logger.Debug("asset fetched",
		zap.String("url", u),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)),
	)

	m.cache.Set(u, data)
	return data, nil
}

// Close logs cache usage, then drops cached data and idle connections.
func (m *Manager) Close() {
	hits, misses := m.cache.Stats()
	logger.Debug("asset cache closed", zap.Int("hits", hits), zap.Int("misses", misses))
	m.cache.Clear()
	m.client.CloseIdleConnections()
}

// Cache is a simple in-memory cache for fetched assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
