package wikilink

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultAliasDivider separates the target from the alias in [[target|alias]].
const DefaultAliasDivider = "|"

// priority runs the wikilink parser ahead of goldmark's own link parser (200),
// which would otherwise claim the leading '['.
const priority = 199

var (
	openMarker  = []byte("[[")
	closeMarker = []byte("]]")
)

// ErrInvalidDivider is returned by NewExtender for an unusable alias divider.
var ErrInvalidDivider = errors.New("invalid alias divider")

// Extender registers the wikilink inline parser with a goldmark instance.
type Extender struct {
	divider []byte
}

// NewExtender validates divider and returns an extender bound to it.
// An empty divider selects DefaultAliasDivider.
func NewExtender(divider string) (*Extender, error) {
	if divider == "" {
		divider = DefaultAliasDivider
	}
	if bytes.ContainsAny([]byte(divider), "[]\n") {
		return nil, ErrInvalidDivider
	}
	return &Extender{divider: []byte(divider)}, nil
}

// Divider returns the alias divider this extender splits on.
func (e *Extender) Divider() string {
	return string(e.divider)
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&inlineParser{divider: e.divider}, priority),
	))
}

type inlineParser struct {
	divider []byte
}

func (*inlineParser) Trigger() []byte {
	return []byte{'!', '['}
}

func (p *inlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()

	start := 0
	embed := false
	if len(line) > 0 && line[0] == '!' {
		embed = true
		start = 1
	}
	if !bytes.HasPrefix(line[start:], openMarker) {
		return nil
	}

	body := line[start+len(openMarker):]
	end := bytes.Index(body, closeMarker)
	if end < 0 {
		return nil
	}
	inner := body[:end]
	if bytes.IndexByte(inner, '[') >= 0 {
		return nil
	}

	target, alias, hasAlias := p.split(inner)
	if len(bytes.TrimSpace(target)) == 0 {
		return nil
	}

	block.Advance(start + len(openMarker) + end + len(closeMarker))

	if embed {
		return NewEmbed(target, alias, hasAlias)
	}
	return NewLink(target, alias, hasAlias)
}

// split cuts inner at the first divider. The returned slices are copies so
// nodes stay valid when the source buffer is reused.
func (p *inlineParser) split(inner []byte) (target, alias []byte, hasAlias bool) {
	before, after, found := bytes.Cut(inner, p.divider)
	target = bytes.Clone(before)
	if found {
		alias = bytes.Clone(after)
	}
	return target, alias, found
}
