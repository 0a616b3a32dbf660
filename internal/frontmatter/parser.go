package frontmatter

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var delimiter = []byte("---")

// Extension recognises a frontmatter block on the first line of a document.
var Extension goldmark.Extender = &extender{}

type extender struct{}

func (*extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&blockParser{}, 0),
	))
}

type blockParser struct{}

func (*blockParser) Trigger() []byte {
	return []byte{'-'}
}

func (*blockParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	linenum, _ := reader.Position()
	if linenum != 0 {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	if !isDelimiter(line) {
		return nil, parser.NoChildren
	}
	// Without a closing delimiter the dashes are ordinary markdown.
	if !hasClosingDelimiter(reader.Source()[segment.Stop:]) {
		return nil, parser.NoChildren
	}
	return &Node{}, parser.NoChildren
}

func (*blockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if isDelimiter(line) {
		reader.Advance(segment.Len())
		return parser.Close
	}
	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (*blockParser) Close(node ast.Node, reader text.Reader, _ parser.Context) {
	fm, ok := node.(*Node)
	if !ok {
		return
	}
	var buf bytes.Buffer
	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(reader.Source()))
	}
	fm.Value = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	fm.Value = bytes.TrimSuffix(fm.Value, []byte("\r"))
}

func (*blockParser) CanInterruptParagraph() bool {
	return false
}

func (*blockParser) CanAcceptIndentedLine() bool {
	return false
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(util.TrimRightSpace(line), delimiter)
}

func hasClosingDelimiter(rest []byte) bool {
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = nil
		}
		if isDelimiter(line) {
			return true
		}
	}
	return false
}
