package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdnannotate/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want envConfig
	}{
		{
			name: "empty environment",
			vars: nil,
			want: envConfig{},
		},
		{
			name: "all values",
			vars: map[string]string{
				"MDNANNOTATE_CONFIG":     "work",
				"MDNANNOTATE_SHORT_NAME": "fetch",
				"MDNANNOTATE_CACHE_DB":   "/tmp/mdn.db",
				"MDNANNOTATE_OUTPUT_DIR": "out",
				"MDNANNOTATE_TIMEOUT":    "2m",
				"MDNANNOTATE_WORKERS":    "3",
			},
			want: envConfig{
				ConfigPath: "work",
				ShortName:  "fetch",
				CacheDB:    "/tmp/mdn.db",
				OutputDir:  "out",
				Timeout:    2 * time.Minute,
				Workers:    3,
			},
		},
		{
			name: "unparsable numbers are ignored",
			vars: map[string]string{
				"MDNANNOTATE_TIMEOUT": "soon",
				"MDNANNOTATE_WORKERS": "-2",
			},
			want: envConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := loadEnvConfig(func(k string) string { return tt.vars[k] })
			if *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"HOME=/root",
		"MDNANNOTATE_SHORT_NAME=fetch",
		"MDNANNOTATE_SHORTNAME=fetch",
	})

	out := buf.String()
	if !strings.Contains(out, "MDNANNOTATE_SHORTNAME") {
		t.Errorf("expected warning for typo, got %q", out)
	}
	if strings.Contains(out, "MDNANNOTATE_SHORT_NAME ") || strings.Count(out, "warning:") != 1 {
		t.Errorf("expected exactly one warning, got %q", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills empty values", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{ShortName: "fetch", CacheDB: "c.db", OutputDir: "out"}, cfg)
		if cfg.ShortName != "fetch" || cfg.Cache.Path != "c.db" || cfg.Output.DefaultDir != "out" {
			t.Errorf("applyEnvConfig() = %+v", cfg)
		}
	})

	t.Run("config file wins", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{ShortName: "from-file"}
		applyEnvConfig(&envConfig{ShortName: "from-env"}, cfg)
		if cfg.ShortName != "from-file" {
			t.Errorf("ShortName = %q, want from-file", cfg.ShortName)
		}
	})
}
