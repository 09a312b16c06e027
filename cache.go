package mdnannotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-mdnannotate/internal/cache"
)

// Fetcher retrieves the raw bytes of a URL. Implementations replace the
// default HTTP client, for instance to serve data from a local mirror.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc = cache.FetcherFunc

// CacheConfig configures a resource cache.
type CacheConfig struct {
	Path        string           // SQLite database file; empty keeps entries in memory
	HTTPTimeout time.Duration    // 0 = 30s
	UserAgent   string           // empty = "go-mdnannotate/1.0"
	Fetcher     Fetcher          // nil = HTTP
	Now         func() time.Time // nil = time.Now
	Logger      *slog.Logger
}

// Cache holds fetched spec maps and datasets. One Cache may back any
// number of Annotators; concurrent requests for the same URL share a
// single network retrieval.
type Cache struct {
	cache  *cache.Cache
	closer io.Closer
}

// OpenCache creates a Cache. With a Path, entries persist across runs.
func OpenCache(cfg CacheConfig) (*Cache, error) {
	var fetcher cache.Fetcher
	if cfg.Fetcher != nil {
		fetcher = cfg.Fetcher
	} else {
		fetcher = cache.NewHTTPFetcher(cache.HTTPConfig{
			Timeout:   cfg.HTTPTimeout,
			UserAgent: cfg.UserAgent,
		})
	}

	var opts []cache.Option
	if cfg.Now != nil {
		opts = append(opts, cache.WithClock(cfg.Now))
	}
	if cfg.Logger != nil {
		opts = append(opts, cache.WithLogger(cfg.Logger))
	}

	c := &Cache{}
	if cfg.Path != "" {
		store, err := cache.OpenSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCacheOpen, err)
		}
		opts = append(opts, cache.WithStore(store))
		c.closer = store
	}

	c.cache = cache.New(fetcher, opts...)
	return c, nil
}

// Stats returns the cache's fetch and hit counters.
func (c *Cache) Stats() CacheStats {
	s := c.cache.Stats()
	return CacheStats{Fetches: s.Fetches, Hits: s.Hits}
}

// Close releases the persistent store, if any.
func (c *Cache) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}
