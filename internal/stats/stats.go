// Package stats tracks timings and counts of a publishing run.
// It captures timing information for each phase of execution, memory usage,
// and throughput so slow vaults can be diagnosed.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Stats holds performance metrics for a publishing run.
type Stats struct {
	// Timing for each phase
	ScanStart    time.Time
	ScanEnd      time.Time
	ProcessStart time.Time
	ProcessEnd   time.Time
	AssetsStart  time.Time
	AssetsEnd    time.Time

	// Counts
	FilesScanned int
	Rendered     int
	Skipped      int
	Failed       int
	Indexes      int
	MediaCopied  int
	BytesWritten int64

	// Memory stats (captured at end)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartScan marks the beginning of the vault scanning phase.
func (s *Stats) StartScan() {
	s.ScanStart = time.Now()
}

// EndScan marks the end of the vault scanning phase.
func (s *Stats) EndScan(filesFound int) {
	s.ScanEnd = time.Now()
	s.FilesScanned = filesFound
}

// StartProcess marks the beginning of the note processing phase.
func (s *Stats) StartProcess() {
	s.ProcessStart = time.Now()
}

// EndProcess marks the end of the note processing phase.
func (s *Stats) EndProcess(rendered, skipped, failed int) {
	s.ProcessEnd = time.Now()
	s.Rendered = rendered
	s.Skipped = skipped
	s.Failed = failed
}

// StartAssets marks the beginning of the phase writing indexes, media and
// site configuration.
func (s *Stats) StartAssets() {
	s.AssetsStart = time.Now()
}

// EndAssets marks the end of the assets phase and captures memory stats.
func (s *Stats) EndAssets(indexes, media int) {
	s.AssetsEnd = time.Now()
	s.Indexes = indexes
	s.MediaCopied = media
	s.captureMemoryStats()
}

// captureMemoryStats reads current memory statistics from runtime.
func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// ScanDuration returns the time spent scanning the vault.
func (s *Stats) ScanDuration() time.Duration {
	if s.ScanEnd.IsZero() {
		return 0
	}
	return s.ScanEnd.Sub(s.ScanStart)
}

// ProcessDuration returns the time spent processing notes.
func (s *Stats) ProcessDuration() time.Duration {
	if s.ProcessEnd.IsZero() {
		return 0
	}
	return s.ProcessEnd.Sub(s.ProcessStart)
}

// AssetsDuration returns the time spent writing indexes, media and config.
func (s *Stats) AssetsDuration() time.Duration {
	if s.AssetsEnd.IsZero() {
		return 0
	}
	return s.AssetsEnd.Sub(s.AssetsStart)
}

// TotalDuration returns the total time from scan start to assets end.
func (s *Stats) TotalDuration() time.Duration {
	if s.AssetsEnd.IsZero() {
		return 0
	}
	return s.AssetsEnd.Sub(s.ScanStart)
}

// NotesPerSecond returns the processing throughput.
func (s *Stats) NotesPerSecond() float64 {
	dur := s.ProcessDuration()
	processed := s.Rendered + s.Skipped + s.Failed
	if dur == 0 || processed == 0 {
		return 0
	}
	return float64(processed) / dur.Seconds()
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(bytes uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	total := s.TotalDuration()
	phase := func(label string, d time.Duration) {
		fmt.Fprintf(&b, "  %-14s %8s", label, FormatDuration(d))
		if total > 0 {
			fmt.Fprintf(&b, "  (%4.1f%%)", float64(d)/float64(total)*100)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n=== Performance Statistics ===\n\n")

	b.WriteString("Timing:\n")
	phase("Scan vault:", s.ScanDuration())
	phase("Process notes:", s.ProcessDuration())
	phase("Write assets:", s.AssetsDuration())
	b.WriteString("  ─────────────────────────\n")
	fmt.Fprintf(&b, "  Total:         %8s\n", FormatDuration(total))

	b.WriteString("\nThroughput:\n")
	fmt.Fprintf(&b, "  Files scanned:     %5d\n", s.FilesScanned)
	fmt.Fprintf(&b, "  Rendered:          %5d\n", s.Rendered)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "  Skipped:           %5d\n", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(&b, "  Failed:            %5d\n", s.Failed)
	}
	fmt.Fprintf(&b, "  Index pages:       %5d\n", s.Indexes)
	fmt.Fprintf(&b, "  Media copied:      %5d\n", s.MediaCopied)
	fmt.Fprintf(&b, "  Written:        %8s\n", FormatBytes(uint64(max(s.BytesWritten, 0))))
	fmt.Fprintf(&b, "  Notes/second:      %5.1f\n", s.NotesPerSecond())

	b.WriteString("\nMemory:\n")
	fmt.Fprintf(&b, "  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc))
	fmt.Fprintf(&b, "  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc))
	fmt.Fprintf(&b, "  GC cycles:     %8d\n", s.NumGC)
	fmt.Fprintf(&b, "  Goroutines:    %8d\n", s.NumGoroutine)

	return b.String()
}

// ToJSON returns a map suitable for JSON serialization.
func (s *Stats) ToJSON() map[string]any {
	return map[string]any{
		"timing": map[string]any{
			"scan_ms":    s.ScanDuration().Milliseconds(),
			"process_ms": s.ProcessDuration().Milliseconds(),
			"assets_ms":  s.AssetsDuration().Milliseconds(),
			"total_ms":   s.TotalDuration().Milliseconds(),
		},
		"throughput": map[string]any{
			"files_scanned":    s.FilesScanned,
			"rendered":         s.Rendered,
			"skipped":          s.Skipped,
			"failed":           s.Failed,
			"indexes":          s.Indexes,
			"media_copied":     s.MediaCopied,
			"bytes_written":    s.BytesWritten,
			"notes_per_second": s.NotesPerSecond(),
		},
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
			"goroutines":  s.NumGoroutine,
		},
	}
}
