package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file discovery.
var (
	ErrUnsupportedInput   = errors.New("file must have .html, .htm, .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// annotatedSuffix marks outputs written next to their source, and lets
// directory walks skip the results of earlier runs.
const annotatedSuffix = ".annotated"

// FileToAnnotate represents a single file to process.
type FileToAnnotate struct {
	InputPath  string
	OutputPath string // annotated HTML destination
	Markdown   bool
}

// PDFPath returns the PDF destination alongside the HTML output.
func (f FileToAnnotate) PDFPath() string {
	return strings.TrimSuffix(f.OutputPath, filepath.Ext(f.OutputPath)) + ".pdf"
}

// isMarkdownPath reports whether path has a Markdown extension.
func isMarkdownPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// isHTMLPath reports whether path has an HTML extension.
func isHTMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// isAnnotatedOutput reports whether path looks like a file this tool wrote.
func isAnnotatedOutput(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(base, annotatedSuffix)
}

// validateInputExtension checks that an explicitly named file is supported.
func validateInputExtension(path string) error {
	if isHTMLPath(path) || isMarkdownPath(path) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
}

// discoverFiles finds all documents to annotate under the given inputs.
// An output ending in .html names a single destination file; any other
// non-empty output is a directory mirroring each input tree.
func discoverFiles(inputs []string, outputDir string) ([]FileToAnnotate, error) {
	var files []FileToAnnotate

	for _, inputPath := range inputs {
		info, err := os.Stat(inputPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateInputExtension(inputPath); err != nil {
				return nil, err
			}
			files = append(files, newFileToAnnotate(inputPath, outputDir, ""))
			continue
		}

		err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if path != inputPath && outputDir != "" && sameFile(path, outputDir) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isHTMLPath(path) && !isMarkdownPath(path) {
				return nil
			}
			if isAnnotatedOutput(path) {
				return nil
			}
			files = append(files, newFileToAnnotate(path, outputDir, inputPath))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if isHTMLPath(outputDir) && len(files) > 1 {
		return nil, fmt.Errorf("%w: output file %s requires a single input document", ErrUsage, outputDir)
	}

	return checkOutputCollisions(files)
}

// checkOutputCollisions drops repeated inputs and rejects distinct inputs
// that resolve to the same output, such as a.md and a.html side by side.
func checkOutputCollisions(files []FileToAnnotate) ([]FileToAnnotate, error) {
	owners := make(map[string]string, len(files))
	unique := files[:0]
	for _, f := range files {
		out, in := absPath(f.OutputPath), absPath(f.InputPath)
		if prev, ok := owners[out]; ok {
			if prev == in {
				continue
			}
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrUsage, prev, in, f.OutputPath)
		}
		owners[out] = in
		unique = append(unique, f)
	}
	return unique, nil
}

// absPath returns the absolute form of path, or its cleaned form when the
// working directory is unavailable.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// newFileToAnnotate pairs an input with its output destination.
func newFileToAnnotate(inputPath, outputDir, baseInputDir string) FileToAnnotate {
	return FileToAnnotate{
		InputPath:  inputPath,
		OutputPath: resolveOutputPath(inputPath, outputDir, baseInputDir),
		Markdown:   isMarkdownPath(inputPath),
	}
}

// resolveOutputPath determines the annotated HTML path for an input.
// Outputs never overwrite their own input.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	sideBySide := filepath.Join(filepath.Dir(inputPath), base+annotatedSuffix+".html")

	if outputDir == "" {
		return sideBySide
	}

	if isHTMLPath(outputDir) {
		return outputDir
	}

	out := filepath.Join(outputDir, base+".html")
	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			out = filepath.Join(outputDir, filepath.Dir(relPath), base+".html")
		}
	}

	if sameFile(out, inputPath) {
		return sideBySide
	}
	return out
}

// sameFile compares two paths after making them absolute.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// titleFromPath derives a document title from a Markdown file name.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validateWorkers checks the worker count is within the pool bounds.
func validateWorkers(n, maxWorkers int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}
