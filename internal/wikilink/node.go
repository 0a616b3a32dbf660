// Package wikilink adds [[target|alias]] and ![[target]] syntax to goldmark.
package wikilink

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// KindWikiLink is the node kind of a wikilink.
var KindWikiLink = ast.NewNodeKind("WikiLink")

// Node is an inline wikilink. Embed is set for the ![[...]] form, in which
// case EmbedType holds its classification; plain links carry EmbedNone.
type Node struct {
	ast.BaseInline

	Target    []byte
	Alias     []byte
	HasAlias  bool
	Embed     bool
	EmbedType EmbedType
}

// NewLink returns a non-embedding wikilink node.
func NewLink(target, alias []byte, hasAlias bool) *Node {
	return &Node{
		Target:    target,
		Alias:     alias,
		HasAlias:  hasAlias,
		EmbedType: EmbedNone,
	}
}

// NewEmbed returns an embedding wikilink node classified by its target.
func NewEmbed(target, alias []byte, hasAlias bool) *Node {
	return &Node{
		Target:    target,
		Alias:     alias,
		HasAlias:  hasAlias,
		Embed:     true,
		EmbedType: Classify(string(target)),
	}
}

// Label is the display text: the alias when present, the target otherwise.
func (n *Node) Label() []byte {
	if n.HasAlias {
		return n.Alias
	}
	return n.Target
}

// Kind implements ast.Node.
func (*Node) Kind() ast.NodeKind {
	return KindWikiLink
}

// Dump implements ast.Node.
func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target":    string(n.Target),
		"Alias":     string(n.Alias),
		"HasAlias":  strconv.FormatBool(n.HasAlias),
		"Embed":     strconv.FormatBool(n.Embed),
		"EmbedType": n.EmbedType.String(),
	}, nil)
}
