package compat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-mdnannotate/internal/cache"
	"github.com/alnah/go-mdnannotate/internal/compat"
)

func TestParseDataset(t *testing.T) {
	t.Parallel()

	payload := `{
		"feat1": [{"slug": "CSS/foo", "summary": "Foo", "support": {"firefox": "54"}}],
		"feat2": [
			{"name": "bar", "slug": "API/Bar", "summary": "Bar"},
			{"slug": "API/Baz", "support": null},
			"not a feature"
		],
		"feat3": [{"slug": "API/Qux", "support": "garbage"}],
		"broken": {"slug": "API/Nope"},
		"empty": []
	}`

	ds, err := compat.ParseDataset([]byte(payload))
	if err != nil {
		t.Fatalf("ParseDataset() error = %v", err)
	}

	if len(ds.Features("feat1")) != 1 {
		t.Fatalf("feat1 features = %d, want 1", len(ds.Features("feat1")))
	}
	foo := ds.Features("feat1")[0]
	if foo.Slug != "CSS/foo" || foo.Summary != "Foo" || !foo.HasSupport() {
		t.Errorf("feat1 = %+v", foo)
	}
	if foo.DisplayName() != "foo" {
		t.Errorf("DisplayName() = %q, want %q", foo.DisplayName(), "foo")
	}

	feat2 := ds.Features("feat2")
	if len(feat2) != 2 {
		t.Fatalf("feat2 features = %d, want 2 (malformed item skipped)", len(feat2))
	}
	if feat2[0].HasSupport() || feat2[1].HasSupport() {
		t.Error("features without support data report HasSupport")
	}
	if feat2[0].DisplayName() != "bar" {
		t.Errorf("DisplayName() = %q, want %q", feat2[0].DisplayName(), "bar")
	}

	qux := ds.Features("feat3")
	if len(qux) != 1 || !qux[0].HasSupport() || len(qux[0].Support) != 0 {
		t.Errorf("feat3 = %+v, want present but empty support", qux)
	}

	for _, id := range []string{"broken", "empty", "missing"} {
		if got := ds.Features(id); got != nil {
			t.Errorf("Features(%q) = %+v, want nil", id, got)
		}
	}
}

func TestFeatureDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		feature compat.Feature
		want    string
	}{
		{"name wins", compat.Feature{Name: "bar", Title: "Bar API", Slug: "API/Bar"}, "bar"},
		{"title fallback", compat.Feature{Title: "Bar API", Slug: "API/Bar"}, "Bar API"},
		{"slug fallback", compat.Feature{Slug: "API/Bar"}, "Bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.feature.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDataset_DropsUnknownBrowsers(t *testing.T) {
	t.Parallel()

	ds, err := compat.ParseDataset([]byte(`{"x": [{"slug": "API/X", "support": {
		"safari": "14",
		"netscape": "4"
	}}]}`))
	if err != nil {
		t.Fatalf("ParseDataset() error = %v", err)
	}

	support := ds.Features("x")[0].Support
	if _, ok := support["netscape"]; ok {
		t.Error("unrecognized browser kept in support data")
	}
	if _, ok := support["safari"]; !ok {
		t.Error("safari missing from support data")
	}
}

func TestParseDataset_NotObject(t *testing.T) {
	t.Parallel()

	if _, err := compat.ParseDataset([]byte(`[1, 2]`)); err == nil {
		t.Error("ParseDataset(array) error = nil, want error")
	}
}

func TestLoader(t *testing.T) {
	t.Parallel()

	const datasetURL = jsonBase + "example.json"
	remote := &fakeRemote{payloads: map[string]string{
		datasetURL: `{"feat1": [{"slug": "CSS/foo", "summary": "Foo"}]}`,
	}}
	l := compat.NewLoader(cache.New(remote))

	first, err := l.Load(context.Background(), datasetURL, time.Hour)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(first.Features("feat1")) != 1 {
		t.Fatalf("Load() = %+v", first)
	}

	second, err := l.Load(context.Background(), datasetURL, time.Hour)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if &second.Features("feat1")[0] != &first.Features("feat1")[0] {
		t.Error("second Load() reparsed the dataset")
	}
	if n := remote.count(datasetURL); n != 1 {
		t.Errorf("dataset fetched %d times, want 1", n)
	}
}

func TestLoader_SoftFailures(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{payloads: map[string]string{
		jsonBase + "array.json": `[]`,
	}}
	l := compat.NewLoader(cache.New(remote))

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "no dataset", url: "", wantErr: false},
		{name: "fetch failure", url: jsonBase + "missing.json", wantErr: true},
		{name: "wrong top level", url: jsonBase + "array.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := l.Load(context.Background(), tt.url, time.Hour)
			if ds == nil || len(ds) != 0 {
				t.Errorf("Load() = %+v, want empty dataset", ds)
			}
			if tt.wantErr != (err != nil) {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, compat.ErrDataset) {
				t.Errorf("Load() error = %v, want ErrDataset", err)
			}
		})
	}
}
