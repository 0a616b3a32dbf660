package markdown

import (
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/notepress/notepress/internal/frontmatter"
	"github.com/notepress/notepress/internal/wikilink"
)

// Renderer writes a goldmark AST as CommonMark text: ATX headings, fenced
// code, "*" emphasis, blocks separated by one blank line and a single
// trailing newline. Wikilinks and frontmatter are written in their source
// syntax.
type Renderer struct {
	divider string
}

// NewRenderer returns a renderer that joins wikilink aliases with divider.
func NewRenderer(divider string) *Renderer {
	if divider == "" {
		divider = wikilink.DefaultAliasDivider
	}
	return &Renderer{divider: divider}
}

// Render writes n to w. source must be the buffer n was parsed from.
func (r *Renderer) Render(w io.Writer, source []byte, n ast.Node) error {
	mw := &mdWriter{source: source, divider: r.divider}

	var out string
	if n.Type() == ast.TypeDocument {
		out = mw.blocks(n, "\n\n")
	} else {
		out = mw.block(n)
	}
	if out != "" {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

type mdWriter struct {
	source  []byte
	divider string
}

func (w *mdWriter) blocks(parent ast.Node, sep string) string {
	parts := make([]string, 0, parent.ChildCount())
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		// Paragraphs holding only link reference definitions render empty.
		if out := w.block(c); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, sep)
}

func (w *mdWriter) block(n ast.Node) string {
	switch n := n.(type) {
	case *frontmatter.Node:
		if len(n.Value) == 0 {
			return "---\n---"
		}
		return "---\n" + string(n.Value) + "\n---"
	case *ast.Heading:
		marker := strings.Repeat("#", n.Level)
		text := w.inlines(n)
		if text == "" {
			return marker
		}
		return marker + " " + text
	case *ast.Paragraph, *ast.TextBlock:
		return w.inlines(n)
	case *ast.ThematicBreak:
		return "***"
	case *ast.FencedCodeBlock:
		info := ""
		if n.Info != nil {
			info = string(n.Info.Segment.Value(w.source))
		}
		return fence(w.lines(n), info)
	case *ast.CodeBlock:
		return fence(w.lines(n), "")
	case *ast.HTMLBlock:
		out := w.lines(n)
		if n.HasClosure() {
			out += string(n.ClosureLine.Value(w.source))
		}
		return strings.TrimRight(out, "\n")
	case *ast.Blockquote:
		return prefixLines(w.blocks(n, "\n\n"), "> ", ">")
	case *ast.List:
		return w.list(n)
	case *east.Table:
		return w.table(n)
	}

	if n.Type() == ast.TypeInline {
		var b strings.Builder
		w.inline(&b, n)
		return b.String()
	}
	if n.HasChildren() && n.FirstChild().Type() == ast.TypeInline {
		return w.inlines(n)
	}
	return w.blocks(n, "\n\n")
}

// lines concatenates the raw source lines of a block, restoring tab padding.
func (w *mdWriter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding > 0 {
			b.WriteString(strings.Repeat(" ", seg.Padding))
		}
		b.Write(seg.Value(w.source))
	}
	return b.String()
}

func (w *mdWriter) list(n *ast.List) string {
	sep := "\n\n"
	if n.IsTight {
		sep = "\n"
	}

	number := n.Start
	items := make([]string, 0, n.ChildCount())
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		marker := string(n.Marker)
		if n.IsOrdered() {
			marker = strconv.Itoa(number) + string(n.Marker)
			number++
		}
		body := w.blocks(c, sep)
		items = append(items, listItem(marker, body))
	}
	return strings.Join(items, sep)
}

func listItem(marker, body string) string {
	if body == "" {
		return marker
	}
	indent := strings.Repeat(" ", len(marker)+1)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = marker + " " + line
		case line != "":
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

func (w *mdWriter) table(n *east.Table) string {
	var rows []string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		cells := make([]string, 0, row.ChildCount())
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, w.inlines(cell))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")

		if _, ok := row.(*east.TableHeader); ok {
			aligns := make([]string, len(n.Alignments))
			for i, a := range n.Alignments {
				aligns[i] = alignment(a)
			}
			rows = append(rows, "| "+strings.Join(aligns, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n")
}

func alignment(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return ":---"
	case east.AlignRight:
		return "---:"
	case east.AlignCenter:
		return ":---:"
	default:
		return "---"
	}
}

func (w *mdWriter) inlines(parent ast.Node) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		w.inline(&b, c)
	}
	return b.String()
}

func (w *mdWriter) inline(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(w.source))
		switch {
		case n.HardLineBreak():
			b.WriteString("\\\n")
		case n.SoftLineBreak():
			b.WriteString("\n")
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.CodeSpan:
		b.WriteString(codeSpan(w.inlines(n)))
	case *ast.Emphasis:
		marker := strings.Repeat("*", n.Level)
		b.WriteString(marker + w.inlines(n) + marker)
	case *east.Strikethrough:
		b.WriteString("~~" + w.inlines(n) + "~~")
	case *ast.Link:
		b.WriteString("[" + w.inlines(n) + "](" + destination(n.Destination, n.Title) + ")")
	case *ast.Image:
		b.WriteString("![" + w.inlines(n) + "](" + destination(n.Destination, n.Title) + ")")
	case *ast.AutoLink:
		b.WriteString("<" + string(n.Label(w.source)) + ">")
	case *ast.RawHTML:
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
	case *wikilink.Node:
		if n.Embed {
			b.WriteByte('!')
		}
		b.WriteString("[[")
		b.Write(n.Target)
		if n.HasAlias {
			b.WriteString(w.divider)
			b.Write(n.Alias)
		}
		b.WriteString("]]")
	default:
		b.WriteString(w.inlines(n))
	}
}

func fence(content, info string) string {
	marker := "```"
	if run := longestRun(content, '`'); run >= len(marker) {
		marker = strings.Repeat("`", run+1)
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return marker + info + "\n" + content + marker
}

func codeSpan(code string) string {
	marker := strings.Repeat("`", longestRun(code, '`')+1)
	if strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") {
		code = " " + code + " "
	}
	return marker + code + marker
}

func longestRun(s string, c byte) int {
	longest, current := 0, 0
	for i := range len(s) {
		if s[i] != c {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}

// destination formats a link target, wrapping it in angle brackets when it
// would not survive a re-parse as a bare destination.
func destination(dest, title []byte) string {
	d := string(dest)
	if needsBrackets(d) {
		d = "<" + d + ">"
	}
	if len(title) > 0 {
		d += ` "` + strings.ReplaceAll(string(title), `"`, `\"`) + `"`
	}
	return d
}

func needsBrackets(dest string) bool {
	if dest == "" {
		return true
	}
	depth := 0
	for _, c := range dest {
		switch c {
		case ' ', '\t', '\n':
			return true
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return true
			}
		}
	}
	return depth != 0
}

func prefixLines(s, prefix, emptyPrefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = emptyPrefix
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
