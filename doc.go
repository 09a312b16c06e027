// Package mdnannotate adds MDN browser-compatibility annotations to
// specification documents.
//
// # Quick Start
//
// Create an annotator, annotate a document, and close when done:
//
//	ann, err := mdnannotate.NewAnnotator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ann.Close()
//
//	result, err := ann.Annotate(ctx, mdnannotate.Input{
//	    HTML:   string(page),
//	    Config: mdnannotate.Config{ShortName: "payment-request"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", result.HTML, 0644)
//
// # Pipeline
//
//  1. The short name is resolved through SPECMAP.json: the key
//     "https://w3c.github.io/<shortName>/" maps to a dataset file name.
//  2. The dataset is fetched from https://w3c.github.io/mdn-spec-links/.
//     It maps anchor ids to MDN features and their per-browser support.
//  3. Every element whose id has features gets an annotation record, placed
//     in an <aside class="mdn-annotation"> container inserted before the
//     top-level block holding the element. Anchors sharing a block share
//     one container.
//
// Both remote resources are cached for Config.MDNAnnotation.MaxAge
// (24 hours by default). Without a short name, or when the short name has
// no dataset, the document is returned unchanged. Network failures are
// logged and never fail the run.
//
// # Markdown
//
// Input.Markdown is rendered with Goldmark first. Headings receive
// generated ids, so anchors match datasets that use the same ids.
//
// # Shared Cache
//
// Annotators sharing a Cache fetch each resource once per freshness
// window. With CacheConfig.Path the cache persists across runs in SQLite:
//
//	c, err := mdnannotate.OpenCache(mdnannotate.CacheConfig{Path: "mdn.db"})
//	ann, err := mdnannotate.NewAnnotator(mdnannotate.WithCache(c))
//
// # Parallel Processing
//
// AnnotatorPool hands out Annotators backed by one Cache:
//
//	pool, err := mdnannotate.NewAnnotatorPool(4)
//	defer pool.Close()
//
//	ann, err := pool.Acquire()
//	defer pool.Release(ann)
//
// # PDF Output
//
// Input.PDF renders the annotated document through headless Chrome
// (go-rod). Rod downloads a managed Chromium on first use. In containers
// and CI set ROD_NO_SANDBOX=1; ROD_BROWSER_BIN selects a custom binary.
package mdnannotate
