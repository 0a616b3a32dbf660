// Package frontmatter parses the leading "---" block of a note into a goldmark
// node and edits it in place. The block body is opaque text; nothing here
// interprets or validates it as YAML.
package frontmatter

import (
	"github.com/yuin/goldmark/ast"
)

// KindFrontmatter is the node kind of a frontmatter block.
var KindFrontmatter = ast.NewNodeKind("Frontmatter")

// Node holds the raw text between the opening and closing delimiters,
// without the trailing newline.
type Node struct {
	ast.BaseBlock

	Value []byte
}

// New returns a frontmatter node holding text.
func New(text string) *Node {
	return &Node{Value: []byte(text)}
}

// Kind implements ast.Node.
func (*Node) Kind() ast.NodeKind {
	return KindFrontmatter
}

// IsRaw implements ast.Node.
func (*Node) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value": string(n.Value),
	}, nil)
}

// Find returns the frontmatter block of doc, or nil. A block is only ever the
// first child of the root.
func Find(doc ast.Node) *Node {
	if doc == nil {
		return nil
	}
	fm, _ := doc.FirstChild().(*Node)
	return fm
}
