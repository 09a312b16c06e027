package mdnannotate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/alnah/go-mdnannotate/internal/annotate"
	"github.com/alnah/go-mdnannotate/internal/compat"
	"github.com/alnah/go-mdnannotate/internal/dom"
	"github.com/alnah/go-mdnannotate/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownRenderer = (*pipeline.GoldmarkRenderer)(nil)
	_ pdfConverter              = (*rodConverter)(nil)
	_ pdfRenderer               = (*rodRenderer)(nil)
)

// Annotator inserts MDN browser-compatibility annotations into documents.
// Create with NewAnnotator, use Annotate per document, and Close when done.
// An Annotator is safe for concurrent Annotate calls only when PDF output
// is not requested; use AnnotatorPool for parallel PDF rendering.
type Annotator struct {
	cfg       annotatorConfig
	cache     *Cache
	ownsCache bool
	resolver  *compat.Resolver
	loader    *compat.Loader
	placer    *annotate.Placer
	markdown  pipeline.MarkdownRenderer
	pdf       pdfConverter
	logger    *slog.Logger
}

// NewAnnotator creates an Annotator with default sources:
// SPECMAP.json from the mdn-spec-links repository, datasets from
// w3c.github.io, links to developer.mozilla.org.
// Returns an error if a source override is not an absolute http(s) URL.
func NewAnnotator(opts ...Option) (*Annotator, error) {
	a := &Annotator{
		cfg: annotatorConfig{
			timeout:    defaultTimeout,
			specMapURL: compat.DefaultSpecMapURL,
			jsonBase:   compat.DefaultJSONBase,
			w3cBase:    compat.DefaultW3CBase,
			docsBase:   annotate.DefaultDocsBase,
		},
		markdown: pipeline.NewGoldmarkRenderer(),
	}

	for _, opt := range opts {
		opt(a)
	}

	for _, u := range []string{a.cfg.specMapURL, a.cfg.jsonBase, a.cfg.w3cBase, a.cfg.docsBase} {
		if err := validateSourceURL(u); err != nil {
			return nil, err
		}
	}

	a.logger = a.cfg.logger
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	a.cache = a.cfg.cache
	if a.cache == nil {
		cacheCfg := a.cfg.cacheCfg
		cacheCfg.Path = ""
		cacheCfg.Logger = a.logger
		c, err := OpenCache(cacheCfg)
		if err != nil {
			return nil, err
		}
		a.cache = c
		a.ownsCache = true
	}

	a.resolver = compat.NewResolver(a.cache.cache,
		compat.WithSpecMapURL(a.cfg.specMapURL),
		compat.WithJSONBase(a.cfg.jsonBase),
		compat.WithW3CBase(a.cfg.w3cBase),
	)
	a.loader = compat.NewLoader(a.cache.cache)
	a.placer = annotate.New(
		annotate.WithDocsBase(a.cfg.docsBase),
		annotate.WithLogger(a.logger),
	)

	if a.pdf == nil {
		a.pdf = newRodConverter(a.cfg.timeout)
	}

	return a, nil
}

// Annotate processes one document and returns the result.
//
// Without a short name the input HTML is returned byte-identical, with no
// network access and no parsing. Resolution misses and fetch failures are
// logged and likewise leave the document unchanged: annotations are an
// enhancement and never block the document. Errors are returned for
// invalid input, Markdown rendering, HTML parsing, PDF output, and context
// cancellation.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (a *Annotator) Annotate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := input.HTML
	if input.Markdown != "" {
		content, err = a.markdown.ToHTML(ctx, input.Markdown, input.Title)
		if err != nil {
			return nil, fmt.Errorf("converting markdown: %w", err)
		}
	}

	res := &Result{HTML: []byte(content)}

	if input.Config.ShortName != "" {
		if err := a.annotate(ctx, content, input.Config, res); err != nil {
			return nil, err
		}
	}

	if !input.PDF {
		return res, nil
	}

	pdf, err := a.pdf.ToPDF(ctx, string(res.HTML))
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdf
	return res, nil
}

// annotate resolves the dataset and places annotations, filling res.
// res.HTML is only replaced when at least one annotation was placed.
func (a *Annotator) annotate(ctx context.Context, content string, cfg Config, res *Result) error {
	log := a.logger.With(slog.String("shortName", cfg.ShortName))
	maxAge := cfg.MaxAge()

	datasetURL, ok, err := a.resolver.Resolve(ctx, cfg.ShortName, maxAge)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("spec map unavailable, skipping annotations", slog.Any("error", err))
		return nil
	}
	if !ok {
		log.Debug("no compatibility dataset for short name")
		return nil
	}
	res.DatasetURL = datasetURL

	ds, err := a.loader.Load(ctx, datasetURL, maxAge)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("dataset unavailable, skipping annotations",
			slog.String("url", datasetURL), slog.Any("error", err))
		return nil
	}
	if len(ds) == 0 {
		return nil
	}

	doc, err := dom.Parse(content)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	sum := a.placer.Place(doc, ds)
	res.Containers = sum.Containers
	res.Annotations = sum.Annotations
	res.Skipped = sum.Skipped
	log.Debug("annotations placed",
		slog.Int("containers", sum.Containers),
		slog.Int("annotations", sum.Annotations),
		slog.Int("skipped", sum.Skipped))

	if sum.Annotations == 0 {
		return nil
	}

	out, err := doc.String()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	res.HTML = []byte(out)
	return nil
}

// Resolve returns the dataset URL for cfg's short name. ok is false when
// the short name is empty or has no spec map entry. Unlike Annotate,
// fetch failures are returned.
func (a *Annotator) Resolve(ctx context.Context, cfg Config) (datasetURL string, ok bool, err error) {
	if err := cfg.Validate(); err != nil {
		return "", false, err
	}
	return a.resolver.Resolve(ctx, cfg.ShortName, cfg.MaxAge())
}

// SpecMapKey returns the spec map key a short name is looked up under.
func (a *Annotator) SpecMapKey(shortName string) string {
	return a.resolver.Key(shortName)
}

// CacheStats returns the activity of the cache backing this Annotator.
func (a *Annotator) CacheStats() CacheStats {
	return a.cache.Stats()
}

// Close releases the headless browser and, unless shared via WithCache,
// the cache.
func (a *Annotator) Close() error {
	var errs []error
	if a.pdf != nil {
		if err := a.pdf.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.ownsCache && a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// validateInput checks that exactly one content field is set and that the
// configuration is usable.
func validateInput(input Input) error {
	if input.HTML == "" && input.Markdown == "" {
		return ErrEmptyInput
	}
	if input.HTML != "" && input.Markdown != "" {
		return ErrAmbiguousInput
	}
	return input.Config.Validate()
}

// validateSourceURL accepts absolute http(s) URLs.
func validateSourceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}
