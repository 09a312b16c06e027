package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdnannotate"
	"github.com/alnah/go-mdnannotate/internal/config"
)

// Exit codes for the mdnannotate CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents processed
	ExitGeneral = 1 // General/unexpected error, or a resolve miss
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, cache open failure
	ExitBrowser = 4 // Browser/Chrome errors during PDF output
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdnannotate.ErrBrowserConnect) ||
		errors.Is(err, mdnannotate.ErrPageCreate) ||
		errors.Is(err, mdnannotate.ErrPageLoad) ||
		errors.Is(err, mdnannotate.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, mdnannotate.ErrCacheOpen) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdnannotate.ErrEmptyInput) ||
		errors.Is(err, mdnannotate.ErrAmbiguousInput) ||
		errors.Is(err, mdnannotate.ErrInvalidMaxAge) ||
		errors.Is(err, mdnannotate.ErrInvalidURL) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrMissingShortName) {
		return ExitUsage
	}

	return ExitGeneral
}
