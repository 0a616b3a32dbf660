package content

import (
	"fmt"
	"path/filepath"

	"github.com/yuin/goldmark/ast"

	"github.com/notepress/notepress/internal/frontmatter"
	"github.com/notepress/notepress/internal/rewrite"
)

// FrontmatterFunc produces frontmatter text for a document.
type FrontmatterFunc func(doc *Document) (string, error)

// Static returns a FrontmatterFunc that always yields text.
func Static(text string) FrontmatterFunc {
	return func(*Document) (string, error) {
		return text, nil
	}
}

// CleanupFrontmatter blanks the existing frontmatter block.
func CleanupFrontmatter() Stage {
	return StageFunc(func(doc *Document) ([]string, error) {
		frontmatter.Cleanup(doc.Root)
		return nil, nil
	})
}

// MergeFrontmatter appends generated text to the frontmatter block, creating
// the block if needed.
func MergeFrontmatter(fn FrontmatterFunc) Stage {
	return StageFunc(func(doc *Document) ([]string, error) {
		text, err := fn(doc)
		if err != nil {
			return nil, fmt.Errorf("generating frontmatter: %w", err)
		}
		frontmatter.Merge(doc.Root, text)
		return nil, nil
	})
}

// SetupFrontmatter inserts a new frontmatter block holding generated text.
func SetupFrontmatter(fn FrontmatterFunc) Stage {
	return StageFunc(func(doc *Document) ([]string, error) {
		text, err := fn(doc)
		if err != nil {
			return nil, fmt.Errorf("generating frontmatter: %w", err)
		}
		frontmatter.SetupNew(doc.Root, text)
		return nil, nil
	})
}

// RewriteLinks resolves links relative to the document directory and
// reports the media they reference.
func RewriteLinks(rw *rewrite.Rewriter) Stage {
	return StageFunc(func(doc *Document) ([]string, error) {
		return rw.Rewrite(doc.Root, filepath.Dir(doc.Path)), nil
	})
}

// AppendHeading adds a level one heading at the end of the document.
func AppendHeading(text string) Stage {
	return StageFunc(func(doc *Document) ([]string, error) {
		h := ast.NewHeading(1)
		h.AppendChild(h, ast.NewString([]byte(text)))
		doc.Root.AppendChild(doc.Root, h)
		return nil, nil
	})
}
