package mdnannotate

import (
	"fmt"
	"time"

	"github.com/alnah/go-mdnannotate/internal/compat"
)

// DefaultMaxAge is the freshness window for the spec map and datasets
// when the configuration does not set one.
const DefaultMaxAge = compat.DefaultMaxAge

// Config is the host document configuration consumed by an annotation run.
// A zero Config (no ShortName) turns Annotate into a no-op.
type Config struct {
	ShortName     string
	MDNAnnotation *MDNAnnotation
}

// MDNAnnotation holds the optional mdnAnnotation settings.
type MDNAnnotation struct {
	MaxAge *int64 // milliseconds; nil = DefaultMaxAge
}

// MaxAge returns the effective freshness window.
func (c Config) MaxAge() time.Duration {
	if c.MDNAnnotation == nil || c.MDNAnnotation.MaxAge == nil {
		return DefaultMaxAge
	}
	return time.Duration(*c.MDNAnnotation.MaxAge) * time.Millisecond
}

// Validate checks the configuration. A missing short name is valid.
func (c Config) Validate() error {
	if c.MDNAnnotation != nil && c.MDNAnnotation.MaxAge != nil && *c.MDNAnnotation.MaxAge < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidMaxAge, *c.MDNAnnotation.MaxAge)
	}
	return nil
}

// Input is one document to annotate. Exactly one of HTML or Markdown is set.
type Input struct {
	HTML     string // full document or fragment
	Markdown string // rendered to a full HTML document first
	Title    string // document title used when rendering Markdown
	Config   Config
	PDF      bool // also render the annotated document to PDF
}

// Result holds the outcome of an annotation run.
type Result struct {
	HTML        []byte // annotated document; the input unchanged when nothing matched
	PDF         []byte // nil unless Input.PDF
	DatasetURL  string // empty when the short name did not resolve
	Containers  int    // annotation containers inserted
	Annotations int    // feature records inserted
	Skipped     int    // matched anchors that had no top-level block
}

// Annotated reports whether the document was modified.
func (r *Result) Annotated() bool {
	return r != nil && r.Annotations > 0
}

// CacheStats reports resource cache activity.
type CacheStats struct {
	Fetches int64 // network retrievals
	Hits    int64 // requests served from a fresh entry
}
