package mdnannotate

import (
	"log/slog"
	"time"
)

// defaultTimeout bounds PDF rendering when no timeout is specified.
const defaultTimeout = 30 * time.Second

// annotatorConfig holds the values collected from options.
type annotatorConfig struct {
	timeout    time.Duration
	cache      *Cache
	cacheCfg   CacheConfig
	specMapURL string
	jsonBase   string
	w3cBase    string
	docsBase   string
	logger     *slog.Logger
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithCache shares c between Annotators. The caller owns c and closes it
// after every Annotator using it is closed. Without this option each
// Annotator keeps its own in-memory cache.
func WithCache(c *Cache) Option {
	return func(a *Annotator) {
		a.cfg.cache = c
	}
}

// WithFetcher replaces the HTTP client of the Annotator's own cache.
// Ignored when WithCache is set.
func WithFetcher(f Fetcher) Option {
	return func(a *Annotator) {
		a.cfg.cacheCfg.Fetcher = f
	}
}

// WithHTTPTimeout sets the per-request timeout of the Annotator's own cache.
// Ignored when WithCache is set.
func WithHTTPTimeout(d time.Duration) Option {
	return func(a *Annotator) {
		a.cfg.cacheCfg.HTTPTimeout = d
	}
}

// WithUserAgent sets the User-Agent of the Annotator's own cache.
// Ignored when WithCache is set.
func WithUserAgent(ua string) Option {
	return func(a *Annotator) {
		a.cfg.cacheCfg.UserAgent = ua
	}
}

// WithSpecMapURL overrides the location of SPECMAP.json.
func WithSpecMapURL(u string) Option {
	return func(a *Annotator) {
		a.cfg.specMapURL = u
	}
}

// WithJSONBase overrides the base URL dataset file names resolve against.
func WithJSONBase(u string) Option {
	return func(a *Annotator) {
		a.cfg.jsonBase = u
	}
}

// WithW3CBase overrides the base URL used to build spec map keys.
func WithW3CBase(u string) Option {
	return func(a *Annotator) {
		a.cfg.w3cBase = u
	}
}

// WithDocsBase overrides the MDN documentation base feature links point to.
func WithDocsBase(u string) Option {
	return func(a *Annotator) {
		a.cfg.docsBase = u
	}
}

// WithLogger sets the logger for soft failures. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *Annotator) {
		a.cfg.logger = l
	}
}

// WithTimeout sets the PDF rendering timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Annotator) {
		a.cfg.timeout = d
	}
}
