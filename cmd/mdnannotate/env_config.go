package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdnannotate/internal/config"
)

// envPrefix namespaces the CLI's environment variables.
const envPrefix = "MDNANNOTATE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly defaults without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDNANNOTATE_CONFIG: config file name or path
	ShortName  string        // MDNANNOTATE_SHORT_NAME: specification short name
	CacheDB    string        // MDNANNOTATE_CACHE_DB: SQLite cache file
	OutputDir  string        // MDNANNOTATE_OUTPUT_DIR: default output directory
	Timeout    time.Duration // MDNANNOTATE_TIMEOUT: PDF rendering timeout
	Workers    int           // MDNANNOTATE_WORKERS: parallel workers
}

// knownEnvVars lists valid MDNANNOTATE_* variables, used to flag typos.
var knownEnvVars = map[string]bool{
	"MDNANNOTATE_CONFIG":     true,
	"MDNANNOTATE_SHORT_NAME": true,
	"MDNANNOTATE_CACHE_DB":   true,
	"MDNANNOTATE_OUTPUT_DIR": true,
	"MDNANNOTATE_TIMEOUT":    true,
	"MDNANNOTATE_WORKERS":    true,
}

// loadEnvConfig reads the recognized variables through getenv.
// Unparsable numeric values are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDNANNOTATE_CONFIG"),
		ShortName:  getenv("MDNANNOTATE_SHORT_NAME"),
		CacheDB:    getenv("MDNANNOTATE_CACHE_DB"),
		OutputDir:  getenv("MDNANNOTATE_OUTPUT_DIR"),
	}

	if timeout := getenv("MDNANNOTATE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MDNANNOTATE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports unrecognized MDNANNOTATE_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values the file left empty.
// Precedence: CLI flags > config file > env vars > defaults
// (flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.ShortName != "" && cfg.ShortName == "" {
		cfg.ShortName = env.ShortName
	}
	if env.CacheDB != "" && cfg.Cache.Path == "" {
		cfg.Cache.Path = env.CacheDB
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
