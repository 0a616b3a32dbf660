package site

import (
	"time"

	"github.com/notepress/notepress/internal/filter"
	"github.com/notepress/notepress/internal/stats"
)

// Page is a published note. Paths are slash separated and relative to the
// vault and site directories.
type Page struct {
	Source string
	Dest   string
	// Media lists the vault files the note references, in document order.
	Media []string
}

// Failure is a note or asset that could not be published.
type Failure struct {
	File string
	Err  error
}

// Report summarizes one build.
type Report struct {
	GeneratedAt time.Time
	Source      string
	SiteDir     string

	Pages   []Page
	Skipped []filter.SkipReason
	Failed  []Failure
	// Indexes are the landing pages generated for directories.
	Indexes []string
	// Media are the copied media files.
	Media []string

	Stats *stats.Stats
}

func newReport(source, siteDir string, perf *stats.Stats) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Source:      source,
		SiteDir:     siteDir,
		Stats:       perf,
	}
}

// HasFailures reports whether anything failed to publish.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

// SkipCounts groups skipped notes by reason type.
func (r *Report) SkipCounts() map[string]int {
	counts := make(map[string]int, 3)
	for _, s := range r.Skipped {
		counts[s.Type]++
	}
	return counts
}
