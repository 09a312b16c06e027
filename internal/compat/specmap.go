package compat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdnannotate/internal/cache"
)

// Remote resource locations and the default freshness window.
const (
	DefaultSpecMapURL = "https://raw.githubusercontent.com/w3c/mdn-spec-links/master/SPECMAP.json"
	DefaultJSONBase   = "https://w3c.github.io/mdn-spec-links/"
	DefaultW3CBase    = "https://w3c.github.io/"
	DefaultMaxAge     = 24 * time.Hour
)

// Resolver maps a short name to its dataset URL through the spec map.
type Resolver struct {
	fetcher    ResourceFetcher
	specMapURL string
	w3cBase    string
	jsonBase   string

	mu      sync.Mutex
	entry   *cache.Entry
	specMap map[string]string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSpecMapURL overrides the spec map location.
func WithSpecMapURL(u string) ResolverOption {
	return func(r *Resolver) { r.specMapURL = u }
}

// WithW3CBase overrides the base used to build spec map keys.
func WithW3CBase(u string) ResolverOption {
	return func(r *Resolver) { r.w3cBase = u }
}

// WithJSONBase overrides the base dataset file names are resolved against.
func WithJSONBase(u string) ResolverOption {
	return func(r *Resolver) { r.jsonBase = u }
}

// NewResolver creates a Resolver reading through fetcher.
func NewResolver(fetcher ResourceFetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher:    fetcher,
		specMapURL: DefaultSpecMapURL,
		w3cBase:    DefaultW3CBase,
		jsonBase:   DefaultJSONBase,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the spec map key for shortName: "<w3c base>/<shortName>/".
func (r *Resolver) Key(shortName string) string {
	return joinURL(r.w3cBase, shortName) + "/"
}

// Resolve returns the dataset URL for shortName. ok is false, with a nil
// error, when shortName is empty (no fetch happens) or the spec map has no
// entry for it. Spec map fetch or parse failures wrap ErrSpecMap.
func (r *Resolver) Resolve(ctx context.Context, shortName string, maxAge time.Duration) (datasetURL string, ok bool, err error) {
	if shortName == "" {
		return "", false, nil
	}

	specMap, err := r.load(ctx, maxAge)
	if err != nil {
		return "", false, err
	}

	file, found := specMap[r.Key(shortName)]
	if !found || file == "" {
		return "", false, nil
	}
	return joinURL(r.jsonBase, file), true, nil
}

// load returns the parsed spec map, reparsing only when the cache hands
// back a different entry.
func (r *Resolver) load(ctx context.Context, maxAge time.Duration) (map[string]string, error) {
	entry, err := r.fetcher.Fetch(ctx, r.specMapURL, maxAge)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpecMap, err)
	}
	if entry == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry == r.entry {
		return r.specMap, nil
	}

	var specMap map[string]string
	if err := json.Unmarshal(entry.Payload, &specMap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpecMap, r.specMapURL, err)
	}
	r.entry, r.specMap = entry, specMap
	return specMap, nil
}

// joinURL joins base and name with exactly one slash.
func joinURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(name, "/")
}
