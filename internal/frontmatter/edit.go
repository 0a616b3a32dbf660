package frontmatter

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Cleanup blanks the text of an existing block. The block itself stays, so
// the rendered document still opens with an empty "---" pair.
func Cleanup(doc ast.Node) {
	if fm := Find(doc); fm != nil {
		fm.Value = nil
	}
}

// Merge appends text to the existing block, separated by a newline, or
// inserts a new block when the document has none. Blank text is a no-op.
// Duplicate keys are not detected, and merging into a cleaned block leaves a
// leading empty line.
func Merge(doc ast.Node, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fm := Find(doc)
	if fm == nil {
		SetupNew(doc, text)
		return
	}
	fm.Value = append(append(fm.Value, '\n'), text...)
}

// SetupNew inserts a block holding text as the first child of doc, whether
// or not one already exists.
func SetupNew(doc ast.Node, text string) {
	fm := New(text)
	if first := doc.FirstChild(); first != nil {
		doc.InsertBefore(doc, first, fm)
		return
	}
	doc.AppendChild(doc, fm)
}
