// Package dom wraps golang.org/x/net/html with the few tree operations the
// annotation pass needs: enumerate anchors, find the top-level block that
// holds a node, and insert or append new elements.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse indicates the document could not be parsed.
var ErrParse = errors.New("failed to parse HTML")

// nonAnchors are elements whose id never hosts an annotation.
var nonAnchors = map[atom.Atom]bool{
	atom.Html:     true,
	atom.Head:     true,
	atom.Body:     true,
	atom.Style:    true,
	atom.Script:   true,
	atom.Template: true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Base:     true,
}

// opaque elements are not descended into when collecting anchors.
var opaque = map[atom.Atom]bool{
	atom.Style:    true,
	atom.Script:   true,
	atom.Template: true,
}

// Document is a parsed HTML document or fragment.
type Document struct {
	root     *html.Node
	fragment bool
	bom      bool
}

// byteOrderMark is the UTF-8 BOM some editors prepend to saved files.
const byteOrderMark = "\ufeff"

// Parse parses a full document or a body fragment. Input is a full document
// when its first significant token, after an optional byte order mark,
// whitespace and comments, is a doctype or an html, head or body start tag.
// Fragments are wrapped in a document node that acts as their content
// container. A leading byte order mark is kept and written back by Render.
func Parse(content string) (*Document, error) {
	body, bom := strings.CutPrefix(content, byteOrderMark)

	if isFullDocument(body) {
		root, err := html.Parse(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return &Document{root: root, bom: bom}, nil
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(body), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root, fragment: true, bom: bom}, nil
}

// isFullDocument reports whether the first token that is neither a comment
// nor whitespace opens a whole document.
func isFullDocument(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.CommentToken:
			continue
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) == "" {
				continue
			}
			return false
		case html.DoctypeToken:
			return true
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html, atom.Head, atom.Body:
				return true
			}
			return false
		default:
			return false
		}
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// IsFragment reports whether the document was parsed as a fragment.
func (d *Document) IsFragment() bool { return d.fragment }

// Content returns the root content container: <body> for full documents,
// the wrapping document node for fragments. It returns nil when a full
// document has no body (a frameset, for instance).
func (d *Document) Content() *html.Node {
	if d.fragment {
		return d.root
	}
	return findElement(d.root, atom.Body)
}

// Anchors returns every element carrying a non-empty id, in document order,
// skipping structural elements that cannot host annotations.
func (d *Document) Anchors() []*html.Node {
	var anchors []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if !nonAnchors[n.DataAtom] && ID(n) != "" {
				anchors = append(anchors, n)
			}
			if opaque[n.DataAtom] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return anchors
}

// TopLevelBlock walks up from n to the ancestor-or-self whose parent is the
// content container. It returns nil when n is not inside the container.
func (d *Document) TopLevelBlock(n *html.Node) *html.Node {
	content := d.Content()
	if content == nil {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Parent == content {
			return cur
		}
	}
	return nil
}

// Render writes the document. Fragments render without an html/body wrapper.
func (d *Document) Render(w io.Writer) error {
	if d.bom {
		if _, err := io.WriteString(w, byteOrderMark); err != nil {
			return err
		}
	}
	if !d.fragment {
		return html.Render(w, d.root)
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String renders the document to a string.
func (d *Document) String() (string, error) {
	var buf strings.Builder
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ID returns the id attribute of n.
func ID(n *html.Node) string {
	v, _ := Attr(n, "id")
	return v
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Element creates a detached element. attrs are key/value pairs; a trailing
// odd key is ignored.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// InsertBefore inserts the detached node n immediately before ref.
// It returns false when ref has no parent.
func InsertBefore(ref, n *html.Node) bool {
	if ref.Parent == nil {
		return false
	}
	ref.Parent.InsertBefore(n, ref)
	return true
}

// AppendChild appends the detached node n to parent and returns n.
func AppendChild(parent, n *html.Node) *html.Node {
	parent.AppendChild(n)
	return n
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
