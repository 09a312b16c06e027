package compat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/alnah/go-mdnannotate/internal/cache"
)

// ResourceFetcher returns a cached or freshly fetched resource.
// *cache.Cache satisfies it.
type ResourceFetcher interface {
	Fetch(ctx context.Context, url string, maxAge time.Duration) (*cache.Entry, error)
}

// Compile-time interface check.
var _ ResourceFetcher = (*cache.Cache)(nil)

// Feature is one MDN feature documented at an anchor.
type Feature struct {
	Name    string
	Title   string
	Slug    string
	Summary string
	// Support is nil when the dataset carries no support data for the
	// feature, which is distinct from a browser being unsupported.
	Support map[string]SupportRecord
}

// DisplayName returns the link text for the feature: Name, else Title,
// else the last segment of Slug.
func (f Feature) DisplayName() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.Title != "":
		return f.Title
	}
	return path.Base(f.Slug)
}

// HasSupport reports whether the feature carries support data.
func (f Feature) HasSupport() bool {
	return f.Support != nil
}

// Dataset maps document anchor ids to the features documented there.
type Dataset map[string][]Feature

// Features returns the features for anchor id, or nil.
func (d Dataset) Features(id string) []Feature {
	return d[id]
}

// ParseDataset decodes a dataset payload. Only a non-object top level is an
// error; anchors or features with unexpected shapes are skipped.
func ParseDataset(payload []byte) (Dataset, error) {
	var anchors map[string]json.RawMessage
	if err := json.Unmarshal(payload, &anchors); err != nil {
		return nil, err
	}

	ds := make(Dataset, len(anchors))
	for id, raw := range anchors {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		features := make([]Feature, 0, len(items))
		for _, item := range items {
			if f, ok := parseFeature(item); ok {
				features = append(features, f)
			}
		}
		if len(features) > 0 {
			ds[id] = features
		}
	}
	return ds, nil
}

func parseFeature(raw json.RawMessage) (Feature, bool) {
	var wire struct {
		Name    string          `json:"name"`
		Title   string          `json:"title"`
		Slug    string          `json:"slug"`
		Summary string          `json:"summary"`
		Support json.RawMessage `json:"support"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Feature{}, false
	}

	f := Feature{
		Name:    wire.Name,
		Title:   wire.Title,
		Slug:    wire.Slug,
		Summary: wire.Summary,
	}

	support := bytes.TrimSpace(wire.Support)
	if len(support) == 0 || bytes.Equal(support, []byte("null")) {
		return f, true
	}
	// Present but not an object: keep an empty table so every browser
	// renders as unknown.
	f.Support = map[string]SupportRecord{}
	_ = json.Unmarshal(support, &f.Support)
	for id := range f.Support {
		if !IsKnownBrowser(id) {
			delete(f.Support, id)
		}
	}
	return f, true
}

// Loader fetches and parses datasets. Parsed datasets are memoized per
// cache entry, so a dataset is parsed once per freshness window.
type Loader struct {
	fetcher ResourceFetcher

	mu   sync.Mutex
	memo map[string]loaded
}

type loaded struct {
	entry   *cache.Entry
	dataset Dataset
}

// NewLoader creates a Loader reading through fetcher.
func NewLoader(fetcher ResourceFetcher) *Loader {
	return &Loader{fetcher: fetcher, memo: make(map[string]loaded)}
}

// Load returns the dataset at datasetURL. An empty URL yields an empty
// dataset and no fetch. On failure the returned dataset is empty (never nil)
// and the error wraps ErrDataset.
func (l *Loader) Load(ctx context.Context, datasetURL string, maxAge time.Duration) (Dataset, error) {
	if datasetURL == "" {
		return Dataset{}, nil
	}

	entry, err := l.fetcher.Fetch(ctx, datasetURL, maxAge)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrDataset, err)
	}
	if entry == nil {
		return Dataset{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.memo[datasetURL]; ok && m.entry == entry {
		return m.dataset, nil
	}

	ds, err := ParseDataset(entry.Payload)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %s: %v", ErrDataset, datasetURL, err)
	}
	l.memo[datasetURL] = loaded{entry: entry, dataset: ds}
	return ds, nil
}
