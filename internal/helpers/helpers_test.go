package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		maxLen   int
		expected string
	}{
		{
			name:     "EmptyString",
			text:     "",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "WhitespaceOnly",
			text:     "   ",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "ShorterThanMax",
			text:     "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "ExactlyMaxLength",
			text:     "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "LongerThanMax",
			text:     "hello world",
			maxLen:   8,
			expected: "hello...",
		},
		{
			name:     "MaxLenLessThan4",
			text:     "test",
			maxLen:   3,
			expected: "test",
		},
		{
			name:     "MaxLenZero",
			text:     "test",
			maxLen:   0,
			expected: "test",
		},
		{
			name:     "MaxLenNegative",
			text:     "test",
			maxLen:   -5,
			expected: "test",
		},
		{
			name:     "UnicodeCountsRunes",
			text:     "héllo wörld",
			maxLen:   8,
			expected: "héllo...",
		},
		{
			name:     "TrimsWhitespace",
			text:     "  hello  ",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "ExactlyMaxLenOf4",
			text:     "testing",
			maxLen:   4,
			expected: "t...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.maxLen))
		})
	}
}

func TestTruncatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		maxLen   int
		expected string
	}{
		{
			name:     "Short",
			path:     "notes/a.md",
			maxLen:   20,
			expected: "notes/a.md",
		},
		{
			name:     "KeepsTail",
			path:     "projects/2024/research/summary.md",
			maxLen:   16,
			expected: "...ch/summary.md",
		},
		{
			name:     "TinyLimit",
			path:     "projects/a.md",
			maxLen:   2,
			expected: "projects/a.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TruncatePath(tt.path, tt.maxLen))
		})
	}
}

func TestPlural(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "notes", Plural(0, "note"))
	assert.Equal(t, "note", Plural(1, "note"))
	assert.Equal(t, "notes", Plural(2, "note"))
}
