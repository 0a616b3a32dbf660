// Package markdown parses notes into a goldmark AST and writes the AST back
// out as markdown text.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/notepress/notepress/internal/frontmatter"
	"github.com/notepress/notepress/internal/wikilink"
)

// Engine pairs a goldmark parser configured for notes with the renderer
// that serializes its trees.
type Engine struct {
	md       goldmark.Markdown
	renderer *Renderer
}

// NewEngine builds an engine that splits wikilink aliases on divider.
// An empty divider selects the default "|".
func NewEngine(divider string) (*Engine, error) {
	wl, err := wikilink.NewExtender(divider)
	if err != nil {
		return nil, fmt.Errorf("wikilink extension: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			frontmatter.Extension,
			wl,
			extension.Table,
			extension.Strikethrough,
		),
	)

	return &Engine{
		md:       md,
		renderer: NewRenderer(wl.Divider()),
	}, nil
}

// Parse builds the AST of source. The returned tree references source, which
// must not be modified while the tree is in use.
func (e *Engine) Parse(source []byte) *ast.Document {
	root := e.md.Parser().Parse(text.NewReader(source))
	doc, ok := root.(*ast.Document)
	if !ok {
		doc = ast.NewDocument()
		doc.AppendChild(doc, root)
	}
	return doc
}

// Render serializes doc back to markdown.
func (e *Engine) Render(doc ast.Node, source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, source, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
