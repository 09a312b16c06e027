package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const (
	testSpecMap = `{"https://w3c.github.io/example/": "example.json"}`
	testDataset = `{"feat1": [{"slug": "CSS/foo", "summary": "Foo", "support": {
		"firefox": "54", "chrome": true, "ie": {"version_removed": true}}}]}`

	testDocument = `<!DOCTYPE html><html><head><title>Example</title></head><body>
<section id="intro"><h2>Introduction</h2><p>Text.</p></section>
<section id="api"><h2>API</h2><dfn id="feat1">feat1</dfn></section>
</body></html>`

	testMarkdown = "# Example\n\n## feat1\n\nThe feature.\n"
)

// dataServer serves a spec map and one dataset, counting requests per path.
type dataServer struct {
	*httptest.Server
	mu     sync.Mutex
	calls  map[string]int
	status int // non-zero forces every response to this status
}

func newDataServer(t *testing.T) *dataServer {
	t.Helper()

	ds := &dataServer{calls: map[string]int{}}
	ds.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ds.mu.Lock()
		ds.calls[r.URL.Path]++
		status := ds.status
		ds.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/SPECMAP.json":
			_, _ = w.Write([]byte(testSpecMap))
		case "/mdn/example.json":
			_, _ = w.Write([]byte(testDataset))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ds.Close)
	return ds
}

func (ds *dataServer) count(path string) int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.calls[path]
}

func (ds *dataServer) total() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	n := 0
	for _, c := range ds.calls {
		n += c
	}
	return n
}

func (ds *dataServer) fail(status int) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.status = status
}

// sourceArgs points the CLI at the test server.
func (ds *dataServer) sourceArgs() []string {
	return []string{
		"--spec-map-url", ds.URL + "/SPECMAP.json",
		"--json-base", ds.URL + "/mdn/",
	}
}

func (ds *dataServer) datasetURL() string {
	return ds.URL + "/mdn/example.json"
}

// testEnv returns an Environment writing to buffers, with vars as its
// whole environment.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			var out []string
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
	return env, &stdout, &stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func args(parts ...[]string) []string {
	out := []string{"mdnannotate"}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
