// Package filter selects the notes to publish from the tags in their
// frontmatter. It reads raw note text and never builds a markdown AST.
package filter

import (
	"bytes"
	"fmt"
	"strings"

	fm "github.com/adrg/frontmatter"
	"github.com/gobwas/glob"
)

// SkipReason describes why a note was not published.
type SkipReason struct {
	Type string // "frontmatter", "no-tags" or "tags"
	Rule string // Detail: the parse error or the tags that were checked
	File string // Source file
}

// Filter accepts notes whose frontmatter tags match a configured tag or
// tag pattern.
type Filter struct {
	// tags maps exact tag names for O(1) lookup.
	tags map[string]bool

	// patterns are compiled glob patterns matched against tags, with '/' as
	// the separator so "blog/*" matches "blog/go" but not "blog/go/deep".
	patterns []compiledGlob

	publishAll bool
}

// compiledGlob holds a glob pattern and its original string for reporting.
type compiledGlob struct {
	pattern  glob.Glob
	original string
}

// Config holds filter configuration.
type Config struct {
	// Tags to publish. Entries containing glob metacharacters are patterns.
	Tags []string
	// PublishAll accepts every note regardless of tags.
	PublishAll bool
}

// New compiles cfg. Returns an error if a tag pattern is invalid.
func New(cfg Config) (*Filter, error) {
	f := &Filter{
		tags:       map[string]bool{},
		publishAll: cfg.PublishAll,
	}

	for _, t := range cfg.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.ContainsAny(t, "*?[{") {
			f.tags[t] = true
			continue
		}
		g, err := glob.Compile(t, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid tag pattern %q: %w", t, err)
		}
		f.patterns = append(f.patterns, compiledGlob{pattern: g, original: t})
	}

	return f, nil
}

// Accept reports whether the note should be published.
func (f *Filter) Accept(raw []byte) bool {
	_, skip := f.Explain("", raw)
	return !skip
}

// Explain returns why file would be skipped. skip is false when the note is
// accepted. Malformed frontmatter always skips.
func (f *Filter) Explain(file string, raw []byte) (reason SkipReason, skip bool) {
	if f == nil || f.publishAll {
		return SkipReason{}, false
	}

	tags, err := Tags(raw)
	if err != nil {
		return SkipReason{Type: "frontmatter", Rule: err.Error(), File: file}, true
	}
	if len(tags) == 0 {
		return SkipReason{Type: "no-tags", File: file}, true
	}

	for _, t := range tags {
		if f.matches(t) {
			return SkipReason{}, false
		}
	}
	return SkipReason{Type: "tags", Rule: strings.Join(tags, ","), File: file}, true
}

func (f *Filter) matches(tag string) bool {
	if f.tags[tag] {
		return true
	}
	for _, g := range f.patterns {
		if g.pattern.Match(tag) {
			return true
		}
	}
	return false
}

// HasRules returns true if the filter selects anything at all.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return f.publishAll || len(f.tags) > 0 || len(f.patterns) > 0
}

// Stats returns the number of exact tags and tag patterns.
func (f *Filter) Stats() (tags, patterns int) {
	if f == nil {
		return 0, 0
	}
	return len(f.tags), len(f.patterns)
}

// Tags returns the string entries of the frontmatter "tags" list. A missing
// block or a "tags" value that is not a list yields no tags; non-string
// entries are ignored.
func Tags(raw []byte) ([]string, error) {
	var meta map[string]any
	if _, err := fm.Parse(bytes.NewReader(raw), &meta); err != nil {
		return nil, err
	}

	list, ok := meta["tags"].([]any)
	if !ok {
		return nil, nil
	}

	tags := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags, nil
}
