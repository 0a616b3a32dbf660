package site

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/notepress/notepress/internal/content"
)

// assets writes everything that is not a published note.
func (r *build) assets(ctx context.Context) error {
	published := make(map[string]bool, len(r.report.Pages))
	for _, p := range r.report.Pages {
		published[p.Dest] = true
	}

	for _, dir := range landingDirs(r.report.Pages, published) {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := path.Join(dir, IndexPage)
		if err := r.generate(r.indexes, rel); err != nil {
			r.report.Failed = append(r.report.Failed, Failure{File: rel, Err: err})
			continue
		}
		r.report.Indexes = append(r.report.Indexes, rel)
	}

	pages := []struct {
		rel string
		p   *content.Pipeline
	}{
		{IndexPage, r.home},
		{NotFoundPage, r.notFound},
	}
	for _, g := range pages {
		if published[g.rel] {
			r.log.Warn("keeping published note over generated page", "page", g.rel)
			continue
		}
		if err := r.generate(g.p, g.rel); err != nil {
			return err
		}
	}

	r.copyMedia(ctx)

	if err := r.jekyll.Write(r.siteDir); err != nil {
		return err
	}
	return nil
}

// landingDirs returns the directories between the vault root and every
// published note that have no published index.md, sorted.
func landingDirs(pages []Page, published map[string]bool) []string {
	seen := map[string]bool{}
	for _, p := range pages {
		for dir := path.Dir(p.Dest); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if seen[dir] {
				break
			}
			seen[dir] = true
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		if !published[path.Join(dir, IndexPage)] {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// generate renders an empty document through p as the vault file rel and
// writes it to the site.
func (r *build) generate(p *content.Pipeline, rel string) error {
	res, err := p.Process(filepath.Join(r.source, filepath.FromSlash(rel)), nil)
	if err != nil {
		return fmt.Errorf("generating %s: %w", rel, err)
	}
	dest := r.destination(rel)
	if err := r.write(dest, res.Text); err != nil {
		return err
	}
	r.log.DocumentRendered(rel, dest)
	return nil
}

// copyMedia copies every referenced media file once, in first reference
// order. Failures are recorded per file.
func (r *build) copyMedia(ctx context.Context) {
	seen := map[string]bool{}
	for _, p := range r.report.Pages {
		for _, m := range p.Media {
			if seen[m] || ctx.Err() != nil {
				continue
			}
			seen[m] = true

			if m == ".." || strings.HasPrefix(m, "../") {
				r.report.Failed = append(r.report.Failed, Failure{File: m, Err: fmt.Errorf("%s is outside the vault", m)})
				continue
			}

			src := filepath.Join(r.source, filepath.FromSlash(m))
			dest := r.destination(m)
			if err := r.copy(src, dest); err != nil {
				r.log.DocumentFailed(m, err)
				r.report.Failed = append(r.report.Failed, Failure{File: m, Err: err})
				continue
			}
			r.log.MediaCopied(m, dest)
			r.report.Media = append(r.report.Media, m)
		}
	}
}

func (r *build) copy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	r.written.Add(n)
	return nil
}
