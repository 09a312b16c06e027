package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"
)

const annotatedMarker = `<aside class="mdn-annotation">`

func TestRunMain_AnnotateFile(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "index.html")
	writeFile(t, input, testDocument)

	env, stdout, stderr := testEnv(nil)
	code := runMain(args([]string{"annotate", "-s", "example"}, srv.sourceArgs(), []string{input}), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	output := filepath.Join(dir, "index.annotated.html")
	got := readFile(t, output)
	if !strings.Contains(got, annotatedMarker) {
		t.Errorf("output missing annotation container:\n%s", got)
	}
	if !strings.Contains(got, `href="https://developer.mozilla.org/en-US/docs/Web/CSS/foo"`) {
		t.Errorf("output missing MDN link:\n%s", got)
	}
	if strings.Index(got, annotatedMarker) > strings.Index(got, `<section id="api">`) {
		t.Error("container should precede the block holding the anchor")
	}
	if readFile(t, input) != testDocument {
		t.Error("input file was modified")
	}
	if !strings.Contains(stdout.String(), "Created "+output) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunMain_DefaultCommand(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "index.html")
	writeFile(t, input, testDocument)

	env, _, stderr := testEnv(nil)
	code := runMain(args([]string{"-s", "example"}, srv.sourceArgs(), []string{input}), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(readFile(t, filepath.Join(dir, "index.annotated.html")), annotatedMarker) {
		t.Error("default command should annotate")
	}
}

func TestRunMain_DirectorySharesCache(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "specs")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "index.html"), testDocument)
	writeFile(t, filepath.Join(src, "copy.html"), testDocument)
	writeFile(t, filepath.Join(src, "sub", "api.md"), testMarkdown)

	env, stdout, stderr := testEnv(nil)
	code := runMain(args(
		[]string{"annotate", "-s", "example", "-w", "3", "-o", out, "-v"},
		srv.sourceArgs(),
		[]string{src},
	), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	for _, name := range []string{"index.html", "copy.html", filepath.Join("sub", "api.html")} {
		got := readFile(t, filepath.Join(out, name))
		if !strings.Contains(got, annotatedMarker) {
			t.Errorf("%s missing annotation:\n%s", name, got)
		}
	}

	if n := srv.count("/SPECMAP.json"); n != 1 {
		t.Errorf("spec map fetched %d times, want 1", n)
	}
	if n := srv.count("/mdn/example.json"); n != 1 {
		t.Errorf("dataset fetched %d times, want 1", n)
	}
	if !strings.Contains(stdout.String(), "3 succeeded (3 annotated), 0 failed") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Cache: 2 fetches") {
		t.Errorf("verbose run should report cache stats, stderr:\n%s", stderr.String())
	}
}

func TestRunMain_NoShortNameCopiesUnchanged(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "index.html")
	writeFile(t, input, testDocument)

	env, _, stderr := testEnv(nil)
	code := runMain(args([]string{"annotate"}, srv.sourceArgs(), []string{input}), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if got := readFile(t, filepath.Join(dir, "index.annotated.html")); got != testDocument {
		t.Errorf("output differs from input:\n%s", got)
	}
	if n := srv.total(); n != 0 {
		t.Errorf("made %d requests, want 0", n)
	}
}

func TestRunMain_UnavailableDataLeavesDocument(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	srv.fail(http.StatusInternalServerError)
	dir := t.TempDir()
	input := filepath.Join(dir, "index.html")
	writeFile(t, input, testDocument)

	env, _, stderr := testEnv(nil)
	code := runMain(args([]string{"annotate", "-s", "example"}, srv.sourceArgs(), []string{input}), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if got := readFile(t, filepath.Join(dir, "index.annotated.html")); got != testDocument {
		t.Errorf("output differs from input:\n%s", got)
	}
	if !strings.Contains(stderr.String(), "spec map unavailable") {
		t.Errorf("expected a warning log, stderr:\n%s", stderr.String())
	}
}

func TestRunMain_Stdin(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	env, stdout, stderr := testEnv(nil)
	env.Stdin = strings.NewReader(testDocument)

	code := runMain(args([]string{"-s", "example"}, srv.sourceArgs(), []string{"-"}), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), annotatedMarker) {
		t.Errorf("stdout missing annotation:\n%s", stdout.String())
	}
}

func TestRunMain_ConfigAndEnv(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)

	t.Run("config file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := filepath.Join(dir, "index.html")
		writeFile(t, input, testDocument)
		cfgPath := filepath.Join(dir, "mdn.yaml")
		writeFile(t, cfgPath, "shortName: example\n"+
			"mdnAnnotation:\n  maxAge: 60000\n"+
			"sources:\n"+
			"  specMapURL: "+srv.URL+"/SPECMAP.json\n"+
			"  jsonBase: "+srv.URL+"/mdn/\n")

		env, _, stderr := testEnv(nil)
		code := runMain([]string{"mdnannotate", "annotate", "-c", cfgPath, input}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
		}
		if !strings.Contains(readFile(t, filepath.Join(dir, "index.annotated.html")), annotatedMarker) {
			t.Error("config short name should enable annotations")
		}
	})

	t.Run("environment short name", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := filepath.Join(dir, "index.html")
		writeFile(t, input, testDocument)

		env, _, stderr := testEnv(map[string]string{"MDNANNOTATE_SHORT_NAME": "example"})
		code := runMain(args([]string{"annotate"}, srv.sourceArgs(), []string{input}), env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
		}
		if !strings.Contains(readFile(t, filepath.Join(dir, "index.annotated.html")), annotatedMarker) {
			t.Error("MDNANNOTATE_SHORT_NAME should enable annotations")
		}
	})

	t.Run("unknown variable warns", func(t *testing.T) {
		t.Parallel()
		env, _, stderr := testEnv(map[string]string{"MDNANNOTATE_SHORTNAME": "example"})
		_ = runMain([]string{"mdnannotate", "version"}, env)
		if !strings.Contains(stderr.String(), "unknown environment variable MDNANNOTATE_SHORTNAME") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}

func TestRunMain_AnnotateErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "index.html")
	writeFile(t, input, testDocument)
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, "x")
	badCfg := filepath.Join(dir, "bad.yaml")
	writeFile(t, badCfg, "shortName: example\nunknownKey: 1\n")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"unknown flag", []string{"annotate", "--bogus", input}, ExitUsage, "unknown flag"},
		{"too many workers", []string{"annotate", "-w", "99", input}, ExitUsage, "invalid worker count"},
		{"bad timeout", []string{"annotate", "-t", "soon", input}, ExitUsage, "invalid timeout"},
		{"negative max age", []string{"annotate", "--max-age", "-5", input}, ExitUsage, "maxAge"},
		{"bad source url", []string{"annotate", "--spec-map-url", "ftp://x", input}, ExitUsage, "specMapURL"},
		{"no input", []string{"annotate", "-s", "example"}, ExitIO, "no input"},
		{"missing file", []string{"annotate", filepath.Join(dir, "missing.html")}, ExitIO, "no such file"},
		{"unsupported file", []string{txt}, ExitUsage, "extension"},
		{"missing config", []string{"annotate", "-c", filepath.Join(dir, "nope.yaml"), input}, ExitUsage, "config file not found"},
		{"missing named config", []string{"annotate", "-c", "nope-profile", input}, ExitUsage, "hint:"},
		{"strict config", []string{"annotate", "-c", badCfg, input}, ExitUsage, "parse config"},
		{"stdin pdf", []string{"annotate", "--pdf", "-"}, ExitUsage, "--pdf requires file input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, stderr := testEnv(nil)
			code := runMain(append([]string{"mdnannotate"}, tt.args...), env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d, stderr:\n%s", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr.String())
			}
		})
	}
}
