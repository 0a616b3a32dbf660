// Package jtd generates the frontmatter the just-the-docs Jekyll theme uses
// to build its navigation tree.
package jtd

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxAncestors is the deepest navigation nesting just-the-docs supports.
// Ancestors beyond it are dropped.
const MaxAncestors = 5

// Ancestors holds the navigation parents of a page, nearest first.
type Ancestors struct {
	Parent         string `yaml:"parent,omitempty"`
	GrandParent    string `yaml:"grand_parent,omitempty"`
	GGrandParent   string `yaml:"ggrand_parent,omitempty"`
	GGGrandParent  string `yaml:"gggrand_parent,omitempty"`
	GGGGrandParent string `yaml:"ggggrand_parent,omitempty"`
}

// newAncestors fills Ancestors from names ordered nearest first.
func newAncestors(names []string) Ancestors {
	var a Ancestors
	slots := []*string{&a.Parent, &a.GrandParent, &a.GGrandParent, &a.GGGrandParent, &a.GGGGrandParent}
	for i, name := range names {
		if i == len(slots) {
			break
		}
		*slots[i] = name
	}
	return a
}

// ChildPage is the frontmatter of a regular note.
type ChildPage struct {
	Title     string `yaml:"title"`
	Layout    string `yaml:"layout"`
	Ancestors `yaml:",inline"`
}

// IndexPage is the frontmatter of a directory landing page.
type IndexPage struct {
	Title       string `yaml:"title"`
	HasToc      bool   `yaml:"has_toc"`
	HasChildren bool   `yaml:"has_children"`
	Layout      string `yaml:"layout"`
	NavExclude  bool   `yaml:"nav_exclude"`
	Index       bool   `yaml:"index"`
	Ancestors   `yaml:",inline"`
}

// NotFoundPage is the frontmatter of 404.md.
type NotFoundPage struct {
	Layout        string `yaml:"layout"`
	Title         string `yaml:"title"`
	NavExclude    bool   `yaml:"nav_exclude"`
	SearchExclude bool   `yaml:"search_exclude"`
}

// Child returns the frontmatter of the note at file. Its parents are the
// directories between sourceDir and the note, nearest first.
func Child(sourceDir, file string) (string, error) {
	names, err := lineage(sourceDir, filepath.Dir(file))
	if err != nil {
		return "", err
	}

	base := filepath.Base(file)
	return marshal(ChildPage{
		Title:     strings.TrimSuffix(base, filepath.Ext(base)),
		Layout:    "default",
		Ancestors: newAncestors(names),
	})
}

// Index returns the frontmatter of the landing page of dir, a directory
// below sourceDir. The directory itself is the page, so its parents start
// one level up.
func Index(sourceDir, dir string) (string, error) {
	names, err := lineage(sourceDir, dir)
	if err != nil {
		return "", err
	}
	if len(names) > 0 {
		names = names[1:]
	}

	return marshal(IndexPage{
		Title:       filepath.Base(dir),
		HasToc:      true,
		HasChildren: true,
		Layout:      "default",
		Ancestors:   newAncestors(names),
	})
}

// RootIndex returns the frontmatter of the site home page.
func RootIndex() (string, error) {
	return marshal(IndexPage{
		Title:      "index",
		Layout:     "index",
		NavExclude: true,
		Index:      true,
	})
}

// NotFound returns the frontmatter of the 404 page.
func NotFound() (string, error) {
	return marshal(NotFoundPage{
		Layout:        "default",
		Title:         "404",
		NavExclude:    true,
		SearchExclude: true,
	})
}

// lineage lists the directory names from dir up to, not including,
// sourceDir. dir equal to sourceDir has none.
func lineage(sourceDir, dir string) ([]string, error) {
	rel, err := filepath.Rel(sourceDir, dir)
	if err != nil {
		return nil, fmt.Errorf("locating %s in %s: %w", dir, sourceDir, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return nil, nil
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, fmt.Errorf("%s is outside %s", dir, sourceDir)
	}

	parts := strings.Split(rel, "/")
	names := make([]string, 0, len(parts))
	for i := len(parts) - 1; i >= 0; i-- {
		names = append(names, parts[i])
	}
	return names, nil
}

func marshal(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
