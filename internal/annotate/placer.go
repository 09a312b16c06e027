// Package annotate places MDN compatibility annotations into a document.
//
// Each anchor whose id appears in the dataset gets one annotation per
// feature. Annotations are grouped per top-level block: the first matching
// anchor in a block inserts an <aside class="mdn-annotation"> immediately
// before that block, and later anchors in the same block append to it.
package annotate

import (
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdnannotate/internal/compat"
	"github.com/alnah/go-mdnannotate/internal/dom"
)

// Markup constants.
const (
	ContainerClass  = "mdn-annotation"
	FeatureClass    = "mdn-feature"
	SupportClass    = "mdn-support"
	NoSupportClass  = "mdn-nosupportdata"
	DefaultDocsBase = "https://developer.mozilla.org/en-US/docs/Web/"
)

// Summary reports what a placement pass did.
type Summary struct {
	Containers  int // containers inserted
	Annotations int // annotation records appended
	Skipped     int // matched anchors outside the content container
}

// Placer inserts annotations into documents.
type Placer struct {
	docsBase string
	browsers []compat.Browser
	logger   *slog.Logger
}

// Option configures a Placer.
type Option func(*Placer)

// WithDocsBase sets the base URL feature slugs are resolved against.
func WithDocsBase(base string) Option {
	return func(p *Placer) { p.docsBase = base }
}

// WithLogger sets the logger for skipped anchors.
func WithLogger(l *slog.Logger) Option {
	return func(p *Placer) { p.logger = l }
}

// New creates a Placer rendering the recognized browsers in fixed order.
func New(opts ...Option) *Placer {
	p := &Placer{
		docsBase: DefaultDocsBase,
		browsers: compat.Browsers(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Place runs a single pass over the document's anchors and appends an
// annotation for every matched feature. Anchors are snapshotted before any
// mutation, so inserted markup is never revisited. Containers are tracked
// by the block they precede; at most one exists per block.
func (p *Placer) Place(doc *dom.Document, ds compat.Dataset) Summary {
	var sum Summary
	if len(ds) == 0 {
		return sum
	}

	containers := make(map[*html.Node]*html.Node)

	for _, anchor := range doc.Anchors() {
		id := dom.ID(anchor)
		features := ds.Features(id)
		if len(features) == 0 {
			continue
		}

		block := doc.TopLevelBlock(anchor)
		if block == nil {
			sum.Skipped++
			p.logger.Debug("anchor outside content container", slog.String("id", id))
			continue
		}

		container, ok := containers[block]
		if !ok {
			container = dom.Element("aside", "class", ContainerClass)
			if !dom.InsertBefore(block, container) {
				sum.Skipped++
				continue
			}
			containers[block] = container
			sum.Containers++
		}

		for _, f := range features {
			dom.AppendChild(container, p.annotation(id, f))
			sum.Annotations++
		}
	}

	return sum
}

// annotation builds one feature record:
//
//	<details class="mdn-feature" data-anchor="id">
//	  <summary>MDN</summary>
//	  <a href="docs/slug" title="summary">name</a>
//	  <table class="mdn-support">...</table> | <p class="mdn-nosupportdata">
//	</details>
func (p *Placer) annotation(anchorID string, f compat.Feature) *html.Node {
	details := dom.Element("details", "class", FeatureClass, "data-anchor", anchorID)

	summary := dom.AppendChild(details, dom.Element("summary"))
	dom.AppendChild(summary, dom.Text("MDN"))

	var link *html.Node
	if f.Slug != "" {
		link = dom.Element("a", "href", p.DocsURL(f.Slug), "title", f.Summary)
	} else {
		link = dom.Element("span", "title", f.Summary)
	}
	dom.AppendChild(link, dom.Text(f.DisplayName()))
	dom.AppendChild(details, link)

	if !f.HasSupport() {
		none := dom.AppendChild(details, dom.Element("p", "class", NoSupportClass))
		dom.AppendChild(none, dom.Text("No support data."))
		return details
	}

	dom.AppendChild(details, p.supportTable(f.Support))
	return details
}

// supportTable renders one row per recognized browser, several for a
// timeline. Browsers absent from support render as unknown.
func (p *Placer) supportTable(support map[string]compat.SupportRecord) *html.Node {
	table := dom.Element("table", "class", SupportClass)
	for _, b := range p.browsers {
		for _, s := range compat.Rows(support[b.ID]) {
			table.AppendChild(supportRow(b, s))
		}
	}
	return table
}

func supportRow(b compat.Browser, s compat.Support) *html.Node {
	status := s.Status.String()
	tr := dom.Element("tr",
		"class", "mdn-support-"+status,
		"data-browser", b.ID,
		"data-status", status,
	)
	th := dom.AppendChild(tr, dom.Element("th", "scope", "row"))
	dom.AppendChild(th, dom.Text(b.Name))
	td := dom.AppendChild(tr, dom.Element("td", "class", "status"))
	dom.AppendChild(td, dom.Text(statusLabel(s.Status)))
	version := dom.AppendChild(tr, dom.Element("td", "class", "version"))
	if s.Version != "" {
		dom.AppendChild(version, dom.Text(s.Version))
	}
	return tr
}

func statusLabel(s compat.Status) string {
	switch s {
	case compat.StatusYes:
		return "Yes"
	case compat.StatusNo:
		return "No"
	default:
		return "Unknown"
	}
}

// DocsURL returns the documentation URL for slug.
func (p *Placer) DocsURL(slug string) string {
	return strings.TrimSuffix(p.docsBase, "/") + "/" + strings.TrimPrefix(slug, "/")
}
