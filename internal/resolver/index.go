package resolver

import (
	"io/fs"
	"strings"
	"sync"
)

// walk lists files under base (slash-separated, relative to the fs root),
// returning paths relative to base. maxDepth < 0 walks the whole subtree but
// does not enter hidden directories; otherwise only files at most maxDepth
// segments deep are listed.
func walk(fsys fs.FS, base string, maxDepth int) []string {
	var files []string
	_ = fs.WalkDir(fsys, base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == base {
				return err
			}
			return nil
		}
		if p == base {
			return nil
		}

		rel, _ := within(p, base)
		if d.IsDir() {
			if maxDepth >= 0 && segments(rel) >= maxDepth {
				return fs.SkipDir
			}
			if maxDepth < 0 && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if accept(rel, maxDepth) {
			files = append(files, rel)
		}
		return nil
	})
	return files
}

// within strips base from p. ok is false when p is not below base.
func within(p, base string) (string, bool) {
	if base == "." || base == "" {
		return p, true
	}
	rel, ok := strings.CutPrefix(p, base+"/")
	return rel, ok
}

// accept applies the depth and hidden-directory rules of walk to a path
// relative to the tier base.
func accept(rel string, maxDepth int) bool {
	parts := strings.Split(rel, "/")
	if maxDepth >= 0 {
		return len(parts) <= maxDepth
	}
	for _, dir := range parts[:len(parts)-1] {
		if strings.HasPrefix(dir, ".") {
			return false
		}
	}
	return true
}

func segments(rel string) int {
	return strings.Count(rel, "/") + 1
}

// index caches the complete file listing of each vault root.
type index struct {
	mu    sync.RWMutex
	roots map[string][]string
}

func newIndex() *index {
	return &index{roots: make(map[string][]string)}
}

func (ix *index) files(fsys fs.FS, root string) []string {
	ix.mu.RLock()
	files, ok := ix.roots[root]
	ix.mu.RUnlock()
	if ok {
		return files
	}

	files = listAll(fsys)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if cached, ok := ix.roots[root]; ok {
		return cached
	}
	ix.roots[root] = files
	return files
}

func (ix *index) drop(root string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.roots, root)
}

// listAll lists every file of fsys, hidden directories included, so the
// per-tier rules can be applied afterwards.
func listAll(fsys fs.FS) []string {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil
	}
	return files
}
