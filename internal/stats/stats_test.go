package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	s := New()

	require.NotNil(t, s)
	assert.True(t, s.ScanStart.IsZero())
	assert.True(t, s.ProcessEnd.IsZero())
	assert.True(t, s.AssetsEnd.IsZero())
	assert.Equal(t, 0, s.FilesScanned)
	assert.Equal(t, 0, s.Rendered)
	assert.Equal(t, 0, s.MediaCopied)
}

// =============================================================================
// Phase Tests
// =============================================================================

func TestPhases(t *testing.T) {
	t.Parallel()

	t.Run("Scan", func(t *testing.T) {
		t.Parallel()
		s := New()
		assert.Equal(t, time.Duration(0), s.ScanDuration())

		s.StartScan()
		time.Sleep(10 * time.Millisecond)
		s.EndScan(25)

		assert.Equal(t, 25, s.FilesScanned)
		assert.GreaterOrEqual(t, s.ScanDuration(), 10*time.Millisecond)
	})

	t.Run("Process", func(t *testing.T) {
		t.Parallel()
		s := New()
		assert.Equal(t, time.Duration(0), s.ProcessDuration())

		s.StartProcess()
		time.Sleep(10 * time.Millisecond)
		s.EndProcess(10, 3, 1)

		assert.Equal(t, 10, s.Rendered)
		assert.Equal(t, 3, s.Skipped)
		assert.Equal(t, 1, s.Failed)
		assert.GreaterOrEqual(t, s.ProcessDuration(), 10*time.Millisecond)
	})

	t.Run("AssetsCapturesMemory", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartAssets()
		s.EndAssets(4, 7)

		assert.Equal(t, 4, s.Indexes)
		assert.Equal(t, 7, s.MediaCopied)
		assert.Positive(t, s.HeapAlloc)
		assert.Positive(t, s.NumGoroutine)
	})
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsZeroWhenIncomplete", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		s.EndScan(1)
		s.StartProcess()
		s.EndProcess(1, 0, 0)

		assert.Equal(t, time.Duration(0), s.TotalDuration())
	})

	t.Run("ReturnsFullDuration", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		time.Sleep(5 * time.Millisecond)
		s.EndScan(1)
		s.StartProcess()
		s.EndProcess(1, 0, 0)
		s.StartAssets()
		s.EndAssets(0, 0)

		assert.GreaterOrEqual(t, s.TotalDuration(), 5*time.Millisecond)
	})
}

func TestNotesPerSecond(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsZeroWhenNothingProcessed", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartProcess()
		s.EndProcess(0, 0, 0)
		assert.Zero(t, s.NotesPerSecond())
	})

	t.Run("CountsEveryOutcome", func(t *testing.T) {
		t.Parallel()
		s := &Stats{
			ProcessStart: time.Unix(0, 0),
			ProcessEnd:   time.Unix(2, 0),
			Rendered:     6,
			Skipped:      3,
			Failed:       1,
		}
		assert.InDelta(t, 5.0, s.NotesPerSecond(), 0.001)
	})
}

// =============================================================================
// Formatting Tests
// =============================================================================

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Zero", 0, "0µs"},
		{"Microseconds", 500 * time.Microsecond, "500µs"},
		{"Milliseconds", 500 * time.Millisecond, "500ms"},
		{"JustUnderSecond", 999 * time.Millisecond, "999ms"},
		{"Seconds", 2500 * time.Millisecond, "2.5s"},
		{"JustUnderMinute", 59*time.Second + 500*time.Millisecond, "59.5s"},
		{"Minutes", 65 * time.Second, "1m5.0s"},
		{"MultipleMinutes", 125 * time.Second, "2m5.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    uint64
		expected string
	}{
		{"Zero", 0, "0 B"},
		{"Bytes", 500, "500 B"},
		{"JustUnderKB", 1023, "1023 B"},
		{"Kilobytes", 1536, "1.5 KB"},
		{"Megabytes", 1572864, "1.5 MB"},
		{"Gigabytes", 1610612736, "1.5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	t.Run("ContainsAllSections", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		s.EndScan(25)
		s.StartProcess()
		s.EndProcess(20, 5, 0)
		s.StartAssets()
		s.EndAssets(3, 8)

		output := s.String()

		for _, want := range []string{
			"Performance Statistics", "Timing:", "Scan vault:", "Process notes:",
			"Write assets:", "Total:", "Throughput:", "Files scanned:", "Rendered:",
			"Index pages:", "Media copied:", "Notes/second:", "Memory:", "Heap in use:",
			"Goroutines:",
		} {
			assert.Contains(t, output, want)
		}
	})

	t.Run("IncludesSkippedAndFailedWhenPresent", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.Skipped = 2
		s.Failed = 1

		output := s.String()
		assert.Contains(t, output, "Skipped:")
		assert.Contains(t, output, "Failed:")
	})

	t.Run("ExcludesSkippedAndFailedWhenZero", func(t *testing.T) {
		t.Parallel()
		output := New().String()
		assert.NotContains(t, output, "Skipped:")
		assert.NotContains(t, output, "Failed:")
	})
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	s := New()
	s.EndScan(4)
	s.EndProcess(2, 1, 1)
	s.BytesWritten = 2048

	out := s.ToJSON()
	require.Contains(t, out, "timing")
	require.Contains(t, out, "memory")

	throughput, ok := out["throughput"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, throughput["files_scanned"])
	assert.Equal(t, 2, throughput["rendered"])
	assert.Equal(t, 1, throughput["failed"])
	assert.Equal(t, int64(2048), throughput["bytes_written"])
}
