package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// maxAgeSentinel detects if --max-age was explicitly set.
// Since 0 is a valid window (always refetch), we use an out-of-range value.
const maxAgeSentinel = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags overrides the remote resource locations.
type sourceFlags struct {
	specMapURL string
	jsonBase   string
	w3cBase    string
	docsBase   string
}

// cacheFlags holds resource cache flags.
type cacheFlags struct {
	path        string
	maxAge      int64
	httpTimeout string
	userAgent   string
}

// annotateFlags holds all flags for the annotate command.
type annotateFlags struct {
	common    commonFlags
	shortName string
	output    string
	pdf       bool
	workers   int
	timeout   string
	sources   sourceFlags
	cache     cacheFlags
}

// resolveFlags holds all flags for the resolve command.
type resolveFlags struct {
	common  commonFlags
	sources sourceFlags
	cache   cacheFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and cache statistics")
}

// addSourceFlags adds resource location flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.specMapURL, "spec-map-url", "", "SPECMAP.json location")
	fs.StringVar(&f.jsonBase, "json-base", "", "base URL of per-spec datasets")
	fs.StringVar(&f.w3cBase, "w3c-base", "", "base URL spec map keys are built on")
	fs.StringVar(&f.docsBase, "docs-base", "", "base URL of MDN article links")
}

// addCacheFlags adds resource cache flags to a FlagSet.
func addCacheFlags(fs *flag.FlagSet, f *cacheFlags) {
	fs.StringVar(&f.path, "cache-db", "", "SQLite cache file (default: in-memory)")
	fs.Int64Var(&f.maxAge, "max-age", maxAgeSentinel, "cache freshness window in milliseconds (default 24h)")
	fs.StringVar(&f.httpTimeout, "http-timeout", "", "per-request fetch timeout (e.g., 10s)")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent sent with fetches")
}

// parseAnnotateFlags parses annotate command flags and returns positional args.
func parseAnnotateFlags(args []string, stderr io.Writer) (*annotateFlags, []string, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &annotateFlags{}

	fs.StringVarP(&f.shortName, "short-name", "s", "", "specification short name")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.pdf, "pdf", false, "also render each annotated document to PDF")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addCacheFlags(fs, &f.cache)

	fs.Usage = func() { printAnnotateUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseResolveFlags parses resolve command flags and returns positional args.
func parseResolveFlags(args []string, stderr io.Writer) (*resolveFlags, []string, error) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &resolveFlags{}

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addCacheFlags(fs, &f.cache)

	fs.Usage = func() { printResolveUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
