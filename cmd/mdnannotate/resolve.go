package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdnannotate"
	"github.com/alnah/go-mdnannotate/internal/hints"
)

// Sentinel errors for the resolve command.
var (
	ErrMissingShortName = errors.New("short name required")
	ErrNoDataset        = errors.New("no compatibility dataset")
)

// runResolve prints the dataset URL a short name resolves to.
// A spec map miss is reported as ErrNoDataset.
func runResolve(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseResolveFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: resolve takes one short name, got %d", ErrUsage, len(positional))
	}

	envCfg := loadEnvConfig(env.getenv)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeSourceFlags(&flags.sources, cfg)
	mergeCacheFlags(&flags.cache, cfg)
	if len(positional) == 1 {
		cfg.ShortName = positional[0]
	}
	if cfg.ShortName == "" {
		return fmt.Errorf("%w%s", ErrMissingShortName, hints.ForShortName(""))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	cache, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	a, err := mdnannotate.NewAnnotator(annotatorOptions(cfg, logger, cache)...)
	if err != nil {
		return err
	}
	defer a.Close()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Key: %s\n", a.SpecMapKey(cfg.ShortName))
	}

	datasetURL, ok, err := a.Resolve(ctx, annotationConfig(cfg))
	if flags.common.verbose {
		printCacheStats(env.Stderr, a.CacheStats())
	}
	if err != nil {
		return fmt.Errorf("resolving %s: %w", cfg.ShortName, err)
	}
	if !ok {
		return fmt.Errorf("%w for %s%s", ErrNoDataset, cfg.ShortName, hints.ForShortName(cfg.ShortName))
	}

	fmt.Fprintln(env.Stdout, datasetURL)
	return nil
}
