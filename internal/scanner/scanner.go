// Package scanner finds the notes and media files of a vault.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// NoteExtensions are the extensions treated as notes. Matching is
// case-sensitive: "page.Md" is not a note.
var NoteExtensions = []string{".md", ".MD", ".markdown", ".MARKDOWN"}

// IsNote reports whether name has a note extension.
func IsNote(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range NoteExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindFiles walks a directory and returns all files matching the given
// extensions, compared case-sensitively. Extensions include the leading dot.
// It skips hidden directories (starting with .) like .git or .obsidian.
func FindFiles(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		return nil, nil
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[ext] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}

		if !d.IsDir() && exts[filepath.Ext(d.Name())] {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindNotes returns every note under root.
func FindNotes(root string) ([]string, error) {
	return FindFiles(root, NoteExtensions)
}

// ScanOptions holds options for scanning files with filtering.
type ScanOptions struct {
	// Root is the vault directory to scan.
	Root string

	// Include patterns (glob) - if set, only matching notes are included.
	Include []string

	// Exclude patterns (glob) - matching notes are excluded.
	Exclude []string
}

// FindNotesWithOptions scans for notes with include/exclude filtering.
// Patterns match paths relative to Root with '/' separators.
func FindNotesWithOptions(opts ScanOptions) ([]string, error) {
	files, err := FindNotes(opts.Root)
	if err != nil {
		return nil, err
	}

	if len(opts.Include) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.Exclude) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// filterByGlobPatterns filters files by glob patterns.
// If include=true, keeps only files matching any pattern.
// If include=false, removes files matching any pattern.
func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		relPath, err := filepath.Rel(root, f)
		if err != nil {
			relPath = f
		}
		relPath = filepath.ToSlash(relPath)

		if matchesAnyGlob(relPath, compiled) == include {
			result = append(result, f)
		}
	}

	return result, nil
}

func matchesAnyGlob(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
