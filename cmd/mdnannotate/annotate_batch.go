package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdnannotate"
	"github.com/alnah/go-mdnannotate/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadInput     = errors.New("failed to read input file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrAnnotatorInit = errors.New("failed to initialize annotator")
)

// AnnotateResult holds the outcome of a single document.
type AnnotateResult struct {
	InputPath   string
	OutputPath  string
	PDFPath     string
	DatasetURL  string
	Annotations int
	Err         error
	Duration    time.Duration
}

// annotateParams groups parameters shared across the batch.
type annotateParams struct {
	cfg mdnannotate.Config
	pdf bool
}

// annotateBatch processes files concurrently, one Annotator per worker.
// A failed document does not stop the others.
func annotateBatch(ctx context.Context, pool Pool, files []FileToAnnotate, params *annotateParams) []AnnotateResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]AnnotateResult, len(files))

	var g errgroup.Group
	g.SetLimit(pool.Size())
	for i := range files {
		g.Go(func() error {
			results[i] = annotateWithPool(ctx, pool, files[i], params)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// annotateWithPool runs annotateFile on an Annotator borrowed from pool.
func annotateWithPool(ctx context.Context, pool Pool, f FileToAnnotate, params *annotateParams) AnnotateResult {
	if err := ctx.Err(); err != nil {
		return AnnotateResult{InputPath: f.InputPath, Err: err}
	}

	a, err := pool.Acquire()
	if err != nil {
		return AnnotateResult{InputPath: f.InputPath, Err: fmt.Errorf("%w: %w", ErrAnnotatorInit, err)}
	}
	defer pool.Release(a)

	return annotateFile(ctx, a, f, params)
}

// annotateFile processes a single file and returns the result.
func annotateFile(ctx context.Context, a DocumentAnnotator, f FileToAnnotate, params *annotateParams) AnnotateResult {
	start := time.Now()
	result := AnnotateResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) AnnotateResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	input := mdnannotate.Input{Config: params.cfg, PDF: params.pdf}
	if f.Markdown {
		input.Markdown = string(content)
		input.Title = titleFromPath(f.InputPath)
	} else {
		input.HTML = string(content)
	}

	res, err := a.Annotate(ctx, input)
	if err != nil {
		return fail(err)
	}
	result.DatasetURL = res.DatasetURL
	result.Annotations = res.Annotations

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err))
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, res.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	if params.pdf {
		result.PDFPath = f.PDFPath()
		if err := fileutil.WriteFileAtomic(result.PDFPath, res.PDF, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Annotated int
}

// countResults tallies succeeded, failed and annotated documents.
func countResults(results []AnnotateResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Annotations > 0:
			summary.Succeeded++
			summary.Annotated++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// batchError reports failed documents and unwraps to the first failure,
// so the exit code reflects its cause.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d documents failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// batchErr returns a *batchError when any result failed, nil otherwise.
func batchErr(results []AnnotateResult) error {
	summary := countResults(results)
	if summary.Failed == 0 {
		return nil
	}
	for _, r := range results {
		if r.Err != nil {
			return &batchError{failed: summary.Failed, total: len(results), first: r.Err}
		}
	}
	return nil
}

// printResults outputs annotation results using the environment writers.
func printResults(results []AnnotateResult, quiet, verbose bool, env *Environment) {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d annotations, %v)\n",
				r.InputPath, r.OutputPath, r.Annotations, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.PDFPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.PDFPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded (%d annotated), %d failed\n",
			summary.Succeeded, summary.Annotated, summary.Failed)
	}
}
