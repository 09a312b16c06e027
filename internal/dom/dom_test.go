package dom

import (
	"strings"
	"testing"
)

func anchorIDs(d *Document) []string {
	var ids []string
	for _, n := range d.Anchors() {
		ids = append(ids, ID(n))
	}
	return ids
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantFragment bool
	}{
		{name: "doctype", input: "<!DOCTYPE html><html><body><p>x</p></body></html>", wantFragment: false},
		{name: "html tag", input: "  <HTML><body><p>x</p></body></HTML>", wantFragment: false},
		{name: "fragment", input: "<section><p>x</p></section>", wantFragment: true},
		{name: "leading comment", input: "<!-- generated -->\n<!DOCTYPE html><html><body><p>x</p></body></html>", wantFragment: false},
		{name: "byte order mark", input: "\ufeff<!DOCTYPE html><html><body><p>x</p></body></html>", wantFragment: false},
		{name: "head without html", input: "<head><title>T</title></head><body><p>x</p></body>", wantFragment: false},
		{name: "body without html", input: "\n<body><p>x</p></body>", wantFragment: false},
		{name: "comment before fragment", input: "<!-- note --><p>x</p>", wantFragment: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if d.IsFragment() != tt.wantFragment {
				t.Errorf("IsFragment() = %v, want %v", d.IsFragment(), tt.wantFragment)
			}
			if d.Content() == nil {
				t.Error("Content() = nil")
			}
		})
	}
}

func TestParseKeepsDocumentStructure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		prefix string
	}{
		{
			name:   "leading comment",
			input:  "<!-- generated -->\n<!DOCTYPE html><html lang=\"en\"><head><title>T</title></head><body><p id=\"a\">x</p></body></html>",
			prefix: "<!-- generated -->",
		},
		{
			name:   "byte order mark",
			input:  "\ufeff<!DOCTYPE html><html lang=\"en\"><head><title>T</title></head><body><p id=\"a\">x</p></body></html>",
			prefix: "\ufeff<!DOCTYPE html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if d.IsFragment() {
				t.Fatal("IsFragment() = true, want false")
			}
			got, err := d.String()
			if err != nil {
				t.Fatalf("String() error = %v", err)
			}
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("String() = %q, want prefix %q", got, tt.prefix)
			}
			for _, want := range []string{"<!DOCTYPE html>", `<html lang="en">`, "<head><title>T</title></head>", `<body><p id="a">x</p></body>`} {
				if !strings.Contains(got, want) {
					t.Errorf("String() = %q, missing %q", got, want)
				}
			}
			if ids := anchorIDs(d); len(ids) != 1 || ids[0] != "a" {
				t.Errorf("Anchors() = %v, want [a]", ids)
			}
		})
	}
}

func TestRenderFragmentRoundTrip(t *testing.T) {
	t.Parallel()

	input := `<section id="a"><p>Hello</p></section><p id="b">World</p>`
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := d.String()
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if got != input {
		t.Errorf("String() = %q, want %q", got, input)
	}
}

func TestAnchors(t *testing.T) {
	t.Parallel()

	input := `<!DOCTYPE html><html id="root"><head><style id="s"></style><meta id="m"></head>
<body id="body">
<section id="one"><h2 id="two">T</h2><p>no id</p><span id="">empty</span></section>
<script id="js">var x = "<p id='inner'>";</script>
<div id="three"></div>
</body></html>`

	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := strings.Join(anchorIDs(d), ",")
	if got != "one,two,three" {
		t.Errorf("Anchors() = %s, want one,two,three", got)
	}
}

func TestTopLevelBlock(t *testing.T) {
	t.Parallel()

	input := `<!DOCTYPE html><html><head><title id="t">x</title></head><body>
<section id="sec"><div><p id="deep">x</p></div></section>
<p id="flat">y</p>
</body></html>`

	d, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	byID := map[string]string{}
	for _, n := range d.Anchors() {
		block := d.TopLevelBlock(n)
		if block == nil {
			byID[ID(n)] = ""
			continue
		}
		byID[ID(n)] = ID(block)
	}

	if byID["deep"] != "sec" {
		t.Errorf("TopLevelBlock(deep) = %q, want sec", byID["deep"])
	}
	if byID["flat"] != "flat" {
		t.Errorf("TopLevelBlock(flat) = %q, want flat", byID["flat"])
	}

	detached := Element("p", "id", "orphan")
	if got := d.TopLevelBlock(detached); got != nil {
		t.Errorf("TopLevelBlock(detached) = %v, want nil", got)
	}
	if got := d.TopLevelBlock(d.Content()); got != nil {
		t.Errorf("TopLevelBlock(body) = %v, want nil", got)
	}
}

func TestTopLevelBlockFragment(t *testing.T) {
	t.Parallel()

	d, err := Parse(`<section id="s"><p id="p">x</p></section>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	anchors := d.Anchors()
	if len(anchors) != 2 {
		t.Fatalf("len(Anchors()) = %d, want 2", len(anchors))
	}
	if block := d.TopLevelBlock(anchors[1]); block != anchors[0] {
		t.Errorf("TopLevelBlock(p) = %v, want section", block)
	}
}

func TestInsertAndAppend(t *testing.T) {
	t.Parallel()

	d, err := Parse(`<p id="a">x</p>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ref := d.Anchors()[0]

	aside := Element("aside", "class", "note extra", "data-x")
	if !InsertBefore(ref, aside) {
		t.Fatal("InsertBefore() = false")
	}
	AppendChild(aside, Text("a < b"))

	if !HasClass(aside, "extra") || HasClass(aside, "ext") {
		t.Error("HasClass() mismatch")
	}
	if len(aside.Attr) != 1 {
		t.Errorf("len(Attr) = %d, want 1 (odd trailing key dropped)", len(aside.Attr))
	}

	got, _ := d.String()
	want := `<aside class="note extra">a &lt; b</aside><p id="a">x</p>`
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if InsertBefore(Element("p"), Element("span")) {
		t.Error("InsertBefore(detached ref) = true, want false")
	}
}
