package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdnannotate"
	"github.com/alnah/go-mdnannotate/internal/config"
	"github.com/alnah/go-mdnannotate/internal/fileutil"
	"github.com/alnah/go-mdnannotate/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// maxStdinBytes bounds documents read from standard input.
const maxStdinBytes = 64 << 20

// stdinPath is the positional argument selecting standard input.
const stdinPath = "-"

// runAnnotate orchestrates the annotate command.
func runAnnotate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseAnnotateFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig(env.getenv)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers, mdnannotate.MaxPoolSize); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	if cfg.ShortName == "" {
		logger.Info("no short name configured, documents are copied unchanged")
	}

	params := &annotateParams{
		cfg: annotationConfig(cfg),
		pdf: flags.pdf || cfg.Output.PDF,
	}

	cache, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	opts := annotatorOptions(cfg, logger, cache)
	if timeout > 0 {
		opts = append(opts, mdnannotate.WithTimeout(timeout))
	}

	if len(positional) == 1 && positional[0] == stdinPath {
		if params.pdf {
			return fmt.Errorf("%w: --pdf requires file input", ErrUsage)
		}
		return annotateStdin(ctx, env, flags.output, params, opts)
	}

	if len(positional) == 0 {
		return ErrNoInput
	}

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(positional, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no HTML or Markdown files found", ErrNoInput)
	}

	poolSize := mdnannotate.ResolvePoolSize(workers)
	if poolSize > len(files) {
		poolSize = len(files)
	}
	logger.Debug("starting batch", slog.Int("files", len(files)), slog.Int("workers", poolSize))

	pool, err := mdnannotate.NewAnnotatorPool(poolSize, opts...)
	if err != nil {
		return err
	}
	defer pool.Close()

	results := annotateBatch(ctx, &poolAdapter{pool: pool}, files, params)
	printResults(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		printCacheStats(env.Stderr, cache.Stats())
	}

	return batchErr(results)
}

// annotateStdin annotates one HTML document read from standard input and
// writes it to output, or to standard output when output is empty.
func annotateStdin(ctx context.Context, env *Environment, output string, params *annotateParams, opts []mdnannotate.Option) error {
	content, err := io.ReadAll(io.LimitReader(env.Stdin, maxStdinBytes))
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
	}

	a, err := mdnannotate.NewAnnotator(opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Annotate(ctx, mdnannotate.Input{HTML: string(content), Config: params.cfg})
	if err != nil {
		return err
	}

	if output == "" {
		if _, err := env.Stdout.Write(res.HTML); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWriteOutput, err)
		}
		return nil
	}

	if err := fileutil.WriteFileAtomic(output, res.HTML, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// loadConfig loads the named config, or defaults when none is named.
// The flag wins over MDNANNOTATE_CONFIG.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags overrides config values with explicitly set flags (CLI wins).
func mergeFlags(f *annotateFlags, cfg *config.Config) {
	if f.shortName != "" {
		cfg.ShortName = f.shortName
	}
	mergeSourceFlags(&f.sources, cfg)
	mergeCacheFlags(&f.cache, cfg)
}

// mergeSourceFlags overrides resource locations with set flags.
func mergeSourceFlags(f *sourceFlags, cfg *config.Config) {
	if f.specMapURL != "" {
		cfg.Sources.SpecMapURL = f.specMapURL
	}
	if f.jsonBase != "" {
		cfg.Sources.JSONBase = f.jsonBase
	}
	if f.w3cBase != "" {
		cfg.Sources.W3CBase = f.w3cBase
	}
	if f.docsBase != "" {
		cfg.Sources.DocsBase = f.docsBase
	}
}

// mergeCacheFlags overrides cache settings with set flags.
func mergeCacheFlags(f *cacheFlags, cfg *config.Config) {
	if f.path != "" {
		cfg.Cache.Path = f.path
	}
	if f.maxAge != maxAgeSentinel {
		maxAge := f.maxAge
		cfg.MDNAnnotation.MaxAge = &maxAge
	}
	if f.httpTimeout != "" {
		cfg.HTTP.Timeout = f.httpTimeout
	}
	if f.userAgent != "" {
		cfg.HTTP.UserAgent = f.userAgent
	}
}

// resolveTimeout parses the PDF timeout flag, falling back to the env value.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, d)
	}
	return d, nil
}

// annotationConfig extracts the per-document configuration.
func annotationConfig(cfg *config.Config) mdnannotate.Config {
	c := mdnannotate.Config{ShortName: cfg.ShortName}
	if cfg.MDNAnnotation.MaxAge != nil {
		c.MDNAnnotation = &mdnannotate.MDNAnnotation{MaxAge: cfg.MDNAnnotation.MaxAge}
	}
	return c
}

// openCache opens the cache described by cfg.
func openCache(cfg *config.Config, logger *slog.Logger) (*mdnannotate.Cache, error) {
	return mdnannotate.OpenCache(mdnannotate.CacheConfig{
		Path:        cfg.Cache.Path,
		HTTPTimeout: cfg.HTTPTimeout(),
		UserAgent:   cfg.HTTP.UserAgent,
		Logger:      logger,
	})
}

// annotatorOptions builds Annotator options from cfg. Empty sources keep
// the library defaults.
func annotatorOptions(cfg *config.Config, logger *slog.Logger, cache *mdnannotate.Cache) []mdnannotate.Option {
	opts := []mdnannotate.Option{
		mdnannotate.WithCache(cache),
		mdnannotate.WithLogger(logger),
	}
	if cfg.Sources.SpecMapURL != "" {
		opts = append(opts, mdnannotate.WithSpecMapURL(cfg.Sources.SpecMapURL))
	}
	if cfg.Sources.JSONBase != "" {
		opts = append(opts, mdnannotate.WithJSONBase(cfg.Sources.JSONBase))
	}
	if cfg.Sources.W3CBase != "" {
		opts = append(opts, mdnannotate.WithW3CBase(cfg.Sources.W3CBase))
	}
	if cfg.Sources.DocsBase != "" {
		opts = append(opts, mdnannotate.WithDocsBase(cfg.Sources.DocsBase))
	}
	return opts
}

// newLogger builds the stderr text logger: warnings by default, debug
// with --verbose, errors only with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printCacheStats reports cache activity for --verbose runs.
func printCacheStats(w io.Writer, s mdnannotate.CacheStats) {
	fmt.Fprintf(w, "Cache: %d fetches, %d hits\n", s.Fetches, s.Hits)
}

// exists reports whether path names an existing file or directory.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
