// Package rewrite points the links of a parsed note at their published
// location and turns wikilinks into standard markdown links and images.
package rewrite

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/notepress/notepress/internal/logger"
	"github.com/notepress/notepress/internal/resolver"
	"github.com/notepress/notepress/internal/wikilink"
)

// Resolver finds the file a link points to.
type Resolver interface {
	Resolve(link, currentDir, rootDir string) resolver.Result
}

// Rewriter rewrites link destinations against one vault root.
type Rewriter struct {
	resolver Resolver
	rootDir  string
	baseURL  string
	log      *logger.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithBaseURL prefixes every rewritten destination with baseURL.
func WithBaseURL(baseURL string) Option {
	return func(rw *Rewriter) {
		rw.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger for media references.
func WithLogger(l *logger.Logger) Option {
	return func(rw *Rewriter) {
		rw.log = logger.OrDiscard(l)
	}
}

// New creates a Rewriter resolving links inside rootDir.
func New(r Resolver, rootDir string, opts ...Option) *Rewriter {
	rw := &Rewriter{
		resolver: r,
		rootDir:  rootDir,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Rewrite updates every link, image and wikilink of doc in a single pass.
// currentDir is the directory of the document. It returns the absolute
// paths of the media files the document references, in document order.
//
// Plain wikilinks become links and image embeds become images; other
// embeds are left as wikilinks. Links that do not resolve keep their
// destination. Links to files other than notes count as media.
func (rw *Rewriter) Rewrite(doc ast.Node, currentDir string) []string {
	var nodes []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Link, *ast.Image, *wikilink.Node:
			nodes = append(nodes, n)
		}
		return ast.WalkContinue, nil
	})

	var media []string
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.Link:
			var resolved string
			n.Destination, resolved = rw.destination(n.Destination, currentDir, false)
			media = rw.record(media, resolved)
		case *ast.Image:
			var resolved string
			n.Destination, resolved = rw.destination(n.Destination, currentDir, true)
			media = rw.record(media, resolved)
		case *wikilink.Node:
			media = rw.record(media, rw.replaceWikiLink(n, currentDir))
		}
	}
	return media
}

// replaceWikiLink swaps n for a new link or image node and returns the
// resolved media path, if any.
func (rw *Rewriter) replaceWikiLink(n *wikilink.Node, currentDir string) string {
	parent := n.Parent()
	if parent == nil {
		return ""
	}
	if n.Embed && n.EmbedType != wikilink.EmbedImage {
		return ""
	}

	link := ast.NewLink()
	link.AppendChild(link, ast.NewString(escapeLabel(n.Label())))

	var resolved string
	dest := []byte(encodeURI(string(n.Target)))
	if !n.Embed {
		link.Destination, resolved = rw.destination(dest, currentDir, false)
		parent.ReplaceChild(parent, n, link)
		return resolved
	}

	link.Destination, resolved = rw.destination(dest, currentDir, true)
	parent.ReplaceChild(parent, n, ast.NewImage(link))
	return resolved
}

// destination resolves dest and returns the rewritten destination together
// with the absolute path of the resolved media file. Notes, unresolved and
// external links come back with an empty path; the last two keep dest.
func (rw *Rewriter) destination(dest []byte, currentDir string, media bool) ([]byte, string) {
	res := rw.resolver.Resolve(decodeURI(string(dest)), currentDir, rw.rootDir)
	if !res.IsFound() {
		return dest, ""
	}
	media = media || !isNote(res.Path)
	out := []byte(encodeURI(rw.format(res.Path, media)))
	if !media {
		return out, ""
	}
	return out, res.Path
}

func isNote(p string) bool {
	return wikilink.Classify(strings.ToLower(p)) == wikilink.EmbedNote
}

// escapeLabel backslash-escapes brackets so the label stays link text.
func escapeLabel(label []byte) []byte {
	out := make([]byte, 0, len(label))
	for _, c := range label {
		if c == '[' || c == ']' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return out
}

// format turns an absolute vault path into a site URL path. Notes lose their
// extension; media keep it.
func (rw *Rewriter) format(resolved string, media bool) string {
	rel, err := filepath.Rel(rw.rootDir, resolved)
	if err != nil {
		rel = resolved
	}
	rel = filepath.ToSlash(rel)
	if !media {
		rel = strings.TrimSuffix(rel, path.Ext(rel))
	}
	return rw.baseURL + "/" + strings.TrimLeft(rel, "/")
}

func (rw *Rewriter) record(media []string, resolved string) []string {
	if resolved == "" {
		return media
	}
	rw.log.Debug("media referenced", "path", resolved)
	return append(media, resolved)
}
