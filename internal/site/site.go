// Package site publishes a vault as a just-the-docs Jekyll site.
//
// A build scans the vault for notes, runs every note through the content
// pipeline with bounded concurrency, mirrors the published notes into the
// site directory and then writes the generated pages: landing pages for
// directories without an index.md, the home page, 404.md, the media the
// notes reference and the Jekyll configuration.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notepress/notepress/internal/content"
	"github.com/notepress/notepress/internal/filter"
	"github.com/notepress/notepress/internal/jekyll"
	"github.com/notepress/notepress/internal/jtd"
	"github.com/notepress/notepress/internal/logger"
	"github.com/notepress/notepress/internal/resolver"
	"github.com/notepress/notepress/internal/rewrite"
	"github.com/notepress/notepress/internal/scanner"
	"github.com/notepress/notepress/internal/stats"
)

// DefaultConcurrency is used when Options.Concurrency is not positive.
const DefaultConcurrency = 8

// Names of the pages generated for every site.
const (
	IndexPage    = "index.md"
	NotFoundPage = "404.md"
)

// ErrTargetIsSource is returned when the site would be written over the vault.
var ErrTargetIsSource = errors.New("site directory must differ from the vault")

// Options configures a Builder.
type Options struct {
	// Source is the vault directory.
	Source string
	// SiteDir receives the published site.
	SiteDir string

	Tags       []string
	PublishAll bool

	BaseURL      string
	AliasDivider string

	// Concurrency bounds the notes processed at once.
	Concurrency int

	// Include and Exclude are glob patterns relative to Source.
	Include []string
	Exclude []string

	Jekyll jekyll.Options

	// Debounce delays watch rebuilds until changes settle.
	Debounce time.Duration

	Logger *logger.Logger
}

// Builder builds the site for one vault. A Builder is safe to reuse across
// builds but not for concurrent builds.
type Builder struct {
	source      string
	siteDir     string
	include     []string
	exclude     []string
	concurrency int
	debounce    time.Duration

	log      *logger.Logger
	resolver *resolver.Resolver
	filter   *filter.Filter
	jekyll   *jekyll.Config

	notes    *content.Pipeline
	indexes  *content.Pipeline
	home     *content.Pipeline
	notFound *content.Pipeline
}

// New prepares a Builder. It fails on invalid tag patterns, an unknown
// theme or an invalid alias divider.
func New(opts Options) (*Builder, error) {
	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.Source, err)
	}
	siteDir, err := filepath.Abs(opts.SiteDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.SiteDir, err)
	}
	if source == siteDir {
		return nil, ErrTargetIsSource
	}

	b := &Builder{
		source:      source,
		siteDir:     siteDir,
		include:     opts.Include,
		exclude:     opts.Exclude,
		concurrency: opts.Concurrency,
		debounce:    opts.Debounce,
		log:         logger.OrDiscard(opts.Logger),
	}
	if b.concurrency <= 0 {
		b.concurrency = DefaultConcurrency
	}
	if b.debounce <= 0 {
		b.debounce = DefaultDebounce
	}

	b.filter, err = filter.New(filter.Config{Tags: opts.Tags, PublishAll: opts.PublishAll})
	if err != nil {
		return nil, err
	}
	if !b.filter.HasRules() {
		b.log.Warn("no tags configured, nothing will be published")
	} else {
		tags, patterns := b.filter.Stats()
		b.log.Debug("tag filter", "tags", tags, "patterns", patterns, "publish_all", opts.PublishAll)
	}

	b.jekyll, err = jekyll.New(opts.Jekyll)
	if err != nil {
		return nil, err
	}

	b.resolver = resolver.New(resolver.WithLogger(b.log), resolver.WithIndexCache())
	rw := rewrite.New(b.resolver, source,
		rewrite.WithBaseURL(opts.BaseURL),
		rewrite.WithLogger(b.log))

	cfg := content.Config{
		SourceDir:    source,
		RootDir:      source,
		BaseURL:      opts.BaseURL,
		AliasDivider: opts.AliasDivider,
		Tags:         opts.Tags,
		PublishAll:   opts.PublishAll,
	}

	if err := b.pipelines(cfg, rw); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Builder) pipelines(cfg content.Config, rw *rewrite.Rewriter) error {
	var err error

	b.notes, err = content.New(cfg, NoteStages(b.source, rw), []content.Filter{b.filter.Accept})
	if err != nil {
		return err
	}

	b.indexes, err = content.New(cfg, []content.Stage{
		content.SetupFrontmatter(func(doc *content.Document) (string, error) {
			return jtd.Index(b.source, filepath.Dir(doc.Path))
		}),
	}, nil)
	if err != nil {
		return err
	}

	b.home, err = content.New(cfg, []content.Stage{
		content.SetupFrontmatter(func(*content.Document) (string, error) {
			return jtd.RootIndex()
		}),
	}, nil)
	if err != nil {
		return err
	}

	b.notFound, err = content.New(cfg, []content.Stage{
		content.SetupFrontmatter(func(*content.Document) (string, error) {
			return jtd.NotFound()
		}),
		content.AppendHeading("Page Not Found"),
	}, nil)
	return err
}

// NoteStages returns the stages every published note goes through: the
// frontmatter is cleaned, merged with its just-the-docs navigation and the
// links are rewritten for the site.
func NoteStages(source string, rw *rewrite.Rewriter) []content.Stage {
	return []content.Stage{
		content.CleanupFrontmatter(),
		content.MergeFrontmatter(func(doc *content.Document) (string, error) {
			return jtd.Child(source, doc.Path)
		}),
		content.RewriteLinks(rw),
	}
}

// Source returns the absolute vault directory.
func (b *Builder) Source() string {
	return b.source
}

// SiteDir returns the absolute site directory.
func (b *Builder) SiteDir() string {
	return b.siteDir
}

// Build publishes the vault. Notes that fail are recorded in the report and
// never stop the build; the returned error covers scanning, cancellation and
// the site configuration.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	perf := stats.New()
	run := &build{Builder: b, report: newReport(b.source, b.siteDir, perf)}

	b.log.PublishStarted(b.source, b.siteDir)

	perf.StartScan()
	files, err := b.scan()
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", b.source, err)
	}
	perf.EndScan(len(files))

	perf.StartProcess()
	if err := run.process(ctx, files); err != nil {
		return nil, err
	}
	perf.EndProcess(len(run.report.Pages), len(run.report.Skipped), len(run.report.Failed))

	perf.StartAssets()
	if err := run.assets(ctx); err != nil {
		return nil, err
	}
	perf.BytesWritten = run.written.Load()
	perf.EndAssets(len(run.report.Indexes), len(run.report.Media))

	b.log.PublishCompleted(len(run.report.Pages), len(run.report.Skipped), len(run.report.Failed),
		perf.TotalDuration())
	return run.report, nil
}

// scan lists the notes of the vault, leaving out the site directory when it
// lives inside the vault.
func (b *Builder) scan() ([]string, error) {
	files, err := scanner.FindNotesWithOptions(scanner.ScanOptions{
		Root:    b.source,
		Include: b.include,
		Exclude: b.exclude,
	})
	if err != nil {
		return nil, err
	}

	kept := files[:0]
	for _, f := range files {
		if !b.inSite(f) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func (b *Builder) inSite(path string) bool {
	rel, err := filepath.Rel(b.siteDir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// rel expresses an absolute vault path relative to the vault, slash separated.
func (b *Builder) rel(path string) string {
	rel, err := filepath.Rel(b.source, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// destination mirrors a slash separated vault path into the site directory.
func (b *Builder) destination(rel string) string {
	return filepath.Join(b.siteDir, filepath.FromSlash(rel))
}

// build holds the state of one Build call.
type build struct {
	*Builder
	report  *Report
	written atomic.Int64
}

type outcome struct {
	page    *Page
	skipped *filter.SkipReason
	failed  *Failure
}

func (r *build) process(ctx context.Context, files []string) error {
	outcomes := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.publish(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, o := range outcomes {
		switch {
		case o.page != nil:
			r.report.Pages = append(r.report.Pages, *o.page)
		case o.skipped != nil:
			r.report.Skipped = append(r.report.Skipped, *o.skipped)
		case o.failed != nil:
			r.report.Failed = append(r.report.Failed, *o.failed)
		}
	}
	return nil
}

// publish runs one note through the pipeline and writes it.
func (r *build) publish(file string) outcome {
	rel := r.rel(file)
	fail := func(err error) outcome {
		r.log.DocumentFailed(rel, err)
		return outcome{failed: &Failure{File: rel, Err: err}}
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return fail(err)
	}

	res, err := r.notes.Process(file, raw)
	if err != nil {
		return fail(err)
	}

	if res.Status == content.Skipped {
		reason, _ := r.filter.Explain(rel, raw)
		r.log.DocumentSkipped(rel, reason.Type)
		return outcome{skipped: &reason}
	}

	dest := r.destination(rel)
	if err := r.write(dest, res.Text); err != nil {
		return fail(err)
	}
	r.log.DocumentRendered(rel, dest)

	media := make([]string, 0, len(res.Media))
	for _, m := range res.Media {
		media = append(media, r.rel(m))
	}
	return outcome{page: &Page{Source: rel, Dest: rel, Media: media}}
}

func (r *build) write(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	r.written.Add(int64(len(data)))
	return nil
}
