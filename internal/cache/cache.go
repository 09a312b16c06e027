package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the raw bytes of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Stats counts how lookups were served.
type Stats struct {
	Fetches int64 // network retrievals
	Hits    int64 // lookups served from a fresh entry
}

// Cache serves fresh entries from its Store and refetches stale or missing
// ones, with at most one fetch in flight per URL.
type Cache struct {
	fetcher  Fetcher
	store    Store
	now      func() time.Time
	validate func([]byte) error
	logger   *slog.Logger

	group   singleflight.Group
	fetches atomic.Int64
	hits    atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore replaces the default MemoryStore.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithClock sets the time source used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithValidator sets the payload check run before an entry is stored.
// Payloads that fail it surface as a FetchError and are not cached.
func WithValidator(fn func([]byte) error) Option {
	return func(c *Cache) { c.validate = fn }
}

// WithLogger sets the logger for store failures and fetch tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates a Cache in front of fetcher.
// Defaults: in-memory store, wall clock, JSON payload validation.
func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:  fetcher,
		store:    NewMemoryStore(),
		now:      time.Now,
		validate: ValidateJSON,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the entry for url, fetching it when no fresh entry exists.
// An empty url yields (nil, nil) without any network activity.
// Failures are returned as *FetchError and leave the store untouched.
// Cancelling ctx abandons the wait but not a fetch other callers share.
func (c *Cache) Fetch(ctx context.Context, url string, maxAge time.Duration) (*Entry, error) {
	if url == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if entry := c.lookup(ctx, url); entry != nil {
		c.hits.Add(1)
		return entry, nil
	}

	// The flight is shared, so it must outlive the caller that started it.
	// Each caller still stops waiting when its own context ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(url, func() (any, error) {
		// A flight that finished between lookup and DoChan may have stored it.
		if entry := c.lookup(flightCtx, url); entry != nil {
			c.hits.Add(1)
			return entry, nil
		}
		return c.refresh(flightCtx, url, maxAge)
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	}
}

// Stats returns a snapshot of the lookup counters.
func (c *Cache) Stats() Stats {
	return Stats{Fetches: c.fetches.Load(), Hits: c.hits.Load()}
}

// lookup returns a fresh stored entry or nil. Store errors count as a miss.
func (c *Cache) lookup(ctx context.Context, url string) *Entry {
	entry, err := c.store.Get(ctx, url)
	if err != nil {
		c.logger.Warn("cache store read failed", slog.String("url", url), slog.Any("error", err))
		return nil
	}
	if !entry.Fresh(c.now()) {
		return nil
	}
	return entry
}

func (c *Cache) refresh(ctx context.Context, url string, maxAge time.Duration) (*Entry, error) {
	c.fetches.Add(1)
	c.logger.Debug("fetching resource", slog.String("url", url))

	payload, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if err := c.validate(payload); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("%w: %v", ErrInvalidPayload, err)}
	}

	entry := &Entry{
		URL:       url,
		FetchedAt: c.now(),
		MaxAge:    maxAge,
		Payload:   payload,
	}
	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.Warn("cache store write failed", slog.String("url", url), slog.Any("error", err))
	}
	return entry, nil
}

// ValidateJSON rejects payloads that are not a single well-formed JSON value.
func ValidateJSON(payload []byte) error {
	if !json.Valid(payload) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}
