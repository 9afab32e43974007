package cache

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// IconSource loads a condition icon by URL
type IconSource interface {
	Icon(ctx context.Context, url string) (image.Image, error)
}

// HTTPIconSource downloads PNG icons
type HTTPIconSource struct {
	client *http.Client
}

// NewHTTPIconSource creates an icon source with the given request timeout
func NewHTTPIconSource(timeout time.Duration) *HTTPIconSource {
	return &HTTPIconSource{client: &http.Client{Timeout: timeout}}
}

// Icon fetches and decodes the PNG at url
func (s *HTTPIconSource) Icon(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch icon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("icon request returned status %d", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon: %w", err)
	}
	return img, nil
}

// CachedIconSource wraps an IconSource and adds caching functionality
type CachedIconSource struct {
	source         IconSource
	cache          map[string]cacheEntry
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	now            func() time.Time
}

// cacheEntry represents a cached icon with its timestamp
type cacheEntry struct {
	Icon      image.Image
	Timestamp time.Time
}

// NewCachedIconSource creates a new cached wrapper around an icon source
func NewCachedIconSource(source IconSource, cacheDuration time.Duration) *CachedIconSource {
	return &CachedIconSource{
		source:        source,
		cache:         make(map[string]cacheEntry),
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

// Icon returns the icon at url, using the cache when available. Failures are
// not cached.
func (c *CachedIconSource) Icon(ctx context.Context, url string) (image.Image, error) {
	c.mutex.RLock()
	entry, found := c.cache[url]
	c.mutex.RUnlock()

	if found && c.now().Sub(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		slog.Debug("icon cache hit", "url", url, "age", c.now().Sub(entry.Timestamp).Round(time.Second))
		return entry.Icon, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	slog.Debug("icon cache miss", "url", url)

	icon, err := c.source.Icon(ctx, url)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	c.cache[url] = cacheEntry{
		Icon:      icon,
		Timestamp: c.now(),
	}
	c.mutex.Unlock()

	return icon, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedIconSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

var (
	_ IconSource = (*HTTPIconSource)(nil)
	_ IconSource = (*CachedIconSource)(nil)
)
