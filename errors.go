package mdnannotate

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input must contain HTML or Markdown")
	ErrAmbiguousInput = errors.New("input must not contain both HTML and Markdown")
	ErrInvalidMaxAge  = errors.New("invalid maxAge")
	ErrInvalidURL     = errors.New("invalid source URL")
	ErrHTMLParse      = errors.New("failed to parse HTML")
	ErrHTMLRender     = errors.New("failed to render annotated HTML")
	ErrCacheOpen      = errors.New("failed to open resource cache")

	// PDF output errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)
