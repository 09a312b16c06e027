// Package config loads the YAML configuration for annotation runs.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdnannotate/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxShortNameLength = 200
	MaxURLLength       = 2048
	MaxPathLength      = 4096
	MaxUserAgentLength = 256
)

// configDirName is the directory under os.UserConfigDir searched for named configs.
const configDirName = "go-mdnannotate"

// Config holds all configuration for an annotation run.
type Config struct {
	ShortName     string              `yaml:"shortName"`
	MDNAnnotation MDNAnnotationConfig `yaml:"mdnAnnotation"`
	Sources       SourcesConfig       `yaml:"sources"`
	Cache         CacheConfig         `yaml:"cache"`
	HTTP          HTTPConfig          `yaml:"http"`
	Output        OutputConfig        `yaml:"output"`
}

// MDNAnnotationConfig mirrors the host document's mdnAnnotation option.
type MDNAnnotationConfig struct {
	MaxAge *int64 `yaml:"maxAge"` // milliseconds; nil = 24h default
}

// SourcesConfig overrides the remote resource locations. Empty = default.
type SourcesConfig struct {
	SpecMapURL string `yaml:"specMapURL"`
	JSONBase   string `yaml:"jsonBase"`
	W3CBase    string `yaml:"w3cBase"`
	DocsBase   string `yaml:"docsBase"`
}

// CacheConfig defines where fetched resources are kept.
type CacheConfig struct {
	Path string `yaml:"path"` // SQLite file; empty = in-memory for the run
}

// HTTPConfig defines network options.
type HTTPConfig struct {
	Timeout   string `yaml:"timeout"` // Go duration, e.g. "30s"
	UserAgent string `yaml:"userAgent"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	PDF        bool   `yaml:"pdf"`
}

// DefaultConfig returns a configuration with no short name, which makes
// every annotation run a no-op until one is set.
func DefaultConfig() *Config {
	return &Config{}
}

// HTTPTimeout returns the parsed HTTP timeout, or 0 when unset.
// Validate guarantees the value parses.
func (c *Config) HTTPTimeout() time.Duration {
	d, _ := time.ParseDuration(c.HTTP.Timeout)
	return d
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	if err := validateFieldLength("shortName", c.ShortName, MaxShortNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.ShortName, "/\\?# ") {
		return fmt.Errorf("%w: shortName: %q contains URL-reserved characters", ErrInvalidValue, c.ShortName)
	}

	if c.MDNAnnotation.MaxAge != nil && *c.MDNAnnotation.MaxAge < 0 {
		return fmt.Errorf("%w: mdnAnnotation.maxAge: must be >= 0, got %d", ErrInvalidValue, *c.MDNAnnotation.MaxAge)
	}

	sources := []struct {
		name, value string
	}{
		{"sources.specMapURL", c.Sources.SpecMapURL},
		{"sources.jsonBase", c.Sources.JSONBase},
		{"sources.w3cBase", c.Sources.W3CBase},
		{"sources.docsBase", c.Sources.DocsBase},
	}
	for _, s := range sources {
		if err := validateURL(s.name, s.value); err != nil {
			return err
		}
	}

	if err := validateFieldLength("cache.path", c.Cache.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("http.userAgent", c.HTTP.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}
	if c.HTTP.Timeout != "" {
		d, err := time.ParseDuration(c.HTTP.Timeout)
		if err != nil {
			return fmt.Errorf("%w: http.timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: http.timeout: must be positive, got %s", ErrInvalidValue, d)
		}
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateURL accepts empty values and absolute http(s) URLs.
func validateURL(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxURLLength); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s: %q is not an absolute http(s) URL", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := unmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name: current directory
// first, then the user config directory; .yaml before .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
