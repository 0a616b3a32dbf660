// Package resolver maps the raw target of a markdown link to a file inside
// the vault.
//
// Relative links are searched in three tiers, stopping at the first tier that
// yields a match: the current directory itself, its descendants, then the
// whole vault. Rooted links ("/dir/page") only match at that exact location
// under the vault root. Inside a tier the match with the fewest path
// separators wins, ties going to the lexicographically smallest path.
package resolver

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/notepress/notepress/internal/logger"
)

// noteExtensions are tried, in order, for links without an extension.
var noteExtensions = []string{".md", ".MD", ".markdown", ".MARKDOWN"}

var externalLink = regexp.MustCompile(`^https?://`)

// Outcome tells whether a link resolved.
type Outcome int

const (
	// Unresolved means no file matched.
	Unresolved Outcome = iota
	// Found means Result.Path holds the matched file.
	Found
	// External means the link is an http(s) URL and was not looked up.
	External
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case External:
		return "external"
	default:
		return "unresolved"
	}
}

// Result is the outcome of one resolution. Path is absolute and set only
// when Outcome is Found.
type Result struct {
	Outcome Outcome
	Path    string
}

// IsFound reports whether the link resolved to a file.
func (r Result) IsFound() bool {
	return r.Outcome == Found
}

// Resolver looks links up on a filesystem. It is safe for concurrent use.
type Resolver struct {
	open  func(root string) fs.FS
	log   *logger.Logger
	cache *index
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFS replaces the filesystem opened for each vault root.
// The default is os.DirFS.
func WithFS(open func(root string) fs.FS) Option {
	return func(r *Resolver) {
		r.open = open
	}
}

// WithLogger sets the logger receiving one debug line per resolution.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		r.log = logger.OrDiscard(l)
	}
}

// WithIndexCache lists each vault root once and serves every lookup from
// memory until Invalidate is called.
func WithIndexCache() Option {
	return func(r *Resolver) {
		r.cache = newIndex()
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		open: os.DirFS,
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate drops the cached listing of rootDir. It is a no-op without
// WithIndexCache.
func (r *Resolver) Invalidate(rootDir string) {
	if r.cache != nil {
		r.cache.drop(rootDir)
	}
}

// Resolve finds the file a link points to. currentDir is the directory of
// the document containing the link; rootDir is the vault root.
func (r *Resolver) Resolve(link, currentDir, rootDir string) Result {
	res := r.resolve(link, currentDir, rootDir)
	r.log.LinkResolved(link, currentDir, res.Outcome.String(), res.Path)
	return res
}

func (r *Resolver) resolve(link, currentDir, rootDir string) Result {
	if externalLink.MatchString(link) {
		return Result{Outcome: External}
	}
	if strings.TrimSpace(link) == "" {
		return Result{Outcome: Unresolved}
	}

	fsys := r.open(rootDir)

	if strings.HasPrefix(link, "/") {
		rel := path.Clean(strings.TrimLeft(link, "/"))
		if rel == "." || escapes(rel) {
			return Result{Outcome: Unresolved}
		}
		return r.found(r.search(fsys, rootDir, ".", rel, false))
	}

	rel := path.Clean(link)
	cur, inside := relativeDir(rootDir, currentDir)

	// "../x" only makes sense relative to the current directory.
	if rel == ".." || strings.HasPrefix(rel, "../") {
		if !inside {
			return Result{Outcome: Unresolved}
		}
		joined := path.Join(cur, rel)
		if escapes(joined) {
			return Result{Outcome: Unresolved}
		}
		return r.found(r.search(fsys, rootDir, ".", joined, false))
	}

	if inside {
		if p, ok := r.search(fsys, rootDir, cur, rel, false); ok {
			return Result{Outcome: Found, Path: p}
		}
		if p, ok := r.search(fsys, rootDir, cur, rel, true); ok {
			return Result{Outcome: Found, Path: p}
		}
	}
	return r.found(r.search(fsys, rootDir, ".", rel, true))
}

func (*Resolver) found(p string, ok bool) Result {
	if !ok {
		return Result{Outcome: Unresolved}
	}
	return Result{Outcome: Found, Path: p}
}

// search runs one tier. base is slash-separated and relative to rootDir.
// Non-recursive tiers only look as deep as the link itself reaches.
func (r *Resolver) search(fsys fs.FS, rootDir, base, link string, recursive bool) (string, bool) {
	pattern := candidatePattern(link)
	exact, err := glob.Compile(pattern, '/')
	if err != nil {
		r.log.Debug("invalid link pattern", "link", link, "error", err)
		return "", false
	}

	maxDepth := strings.Count(link, "/") + 1
	var nested glob.Glob
	if recursive {
		maxDepth = -1
		nested, err = glob.Compile("**/"+pattern, '/')
		if err != nil {
			r.log.Debug("invalid link pattern", "link", link, "error", err)
			return "", false
		}
	}

	var matches []string
	for _, f := range r.listing(fsys, rootDir, base, maxDepth) {
		if exact.Match(f) || (nested != nil && nested.Match(f)) {
			matches = append(matches, f)
		}
	}

	best, ok := closest(matches)
	if !ok {
		return "", false
	}
	return filepath.Join(rootDir, filepath.FromSlash(path.Join(base, best))), true
}

// listing returns files under base, relative to base.
func (r *Resolver) listing(fsys fs.FS, rootDir, base string, maxDepth int) []string {
	if r.cache == nil {
		return walk(fsys, base, maxDepth)
	}

	var files []string
	for _, f := range r.cache.files(fsys, rootDir) {
		rel, ok := within(f, base)
		if ok && accept(rel, maxDepth) {
			files = append(files, rel)
		}
	}
	return files
}

// candidatePattern quotes link and, when it has no extension, appends the
// note extensions as alternatives.
func candidatePattern(link string) string {
	quoted := glob.QuoteMeta(link)
	if path.Ext(link) != "" {
		return quoted
	}
	return quoted + "{" + strings.Join(noteExtensions, ",") + "}"
}

// closest picks the match with the fewest separators, then the smallest.
func closest(matches []string) (string, bool) {
	if len(matches) == 0 {
		return "", false
	}
	slices.Sort(matches)
	best := matches[0]
	for _, m := range matches[1:] {
		if strings.Count(m, "/") < strings.Count(best, "/") {
			best = m
		}
	}
	return best, true
}

// relativeDir expresses dir relative to root. ok is false when dir lies
// outside root.
func relativeDir(root, dir string) (string, bool) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if escapes(rel) {
		return "", false
	}
	return rel, true
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../")
}
