// Package helpers provides shared utility functions used across the application.
// These are generic helpers that don't belong to a specific domain package.
package helpers

import "strings"

// ellipsis marks truncated text.
const ellipsis = "..."

// TruncateText shortens text to the specified maximum length in runes, adding
// "..." if truncated. Returns empty string if input is empty or only
// whitespace. Limits too small to hold the ellipsis leave text unchanged.
func TruncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen || maxLen < len(ellipsis)+1 {
		return text
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// TruncatePath shortens a slash separated path to maxLen runes for display,
// keeping the end of the path where the file name lives.
func TruncatePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen || maxLen < len(ellipsis)+1 {
		return path
	}
	return ellipsis + string(runes[len(runes)-(maxLen-len(ellipsis)):])
}

// Plural returns word, suffixed with "s" unless n is one.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
