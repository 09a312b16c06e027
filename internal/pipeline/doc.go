// Package pipeline turns Markdown specification sources into the HTML
// documents the annotation pass works on.
//
// Headings get stable ids (auto-generated, or explicit with {#id}) so that
// they can match anchors in a compatibility dataset. Code blocks are
// highlighted with CSS classes through chroma.
package pipeline
