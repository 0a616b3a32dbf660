// Package output provides formatting and file writing for publish reports.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/notepress/notepress/internal/site"
)

// Format represents an output format type.
type Format string

const (
	// FormatJSON outputs as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs as YAML.
	FormatYAML Format = "yaml"
	// FormatXML outputs as generic XML.
	FormatXML Format = "xml"
	// FormatJUnit outputs as JUnit XML for CI/CD integration.
	FormatJUnit Format = "junit"
	// FormatMarkdown outputs as a Markdown report.
	FormatMarkdown Format = "markdown"
)

// timeLayout is used for GeneratedAt in every machine readable format.
const timeLayout = time.RFC3339

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatXML),
		string(FormatJUnit),
		string(FormatMarkdown),
	}
}

// IsValidFormat checks if a format string is valid.
func IsValidFormat(s string) bool {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, FormatYAML, FormatXML, FormatJUnit, FormatMarkdown:
		return true
	default:
		return false
	}
}

// Formatter is the interface that output formatters implement.
type Formatter interface {
	Format(report *site.Report) ([]byte, error)
}

// GetFormatter returns the appropriate formatter for a format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatXML:
		return &XMLFormatter{}, nil
	case FormatJUnit:
		return &JUnitFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// FormatReport formats a report using the specified format.
func FormatReport(report *site.Report, format Format) ([]byte, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(report)
}

// InferFormat determines the output format from a filename extension.
func InferFormat(filename string) (Format, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".junit.xml") {
		return FormatJUnit, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf(
			"cannot infer format from extension %q (supported: .json, .yaml, .yml, .xml, .junit.xml, .md, .markdown)",
			ext,
		)
	}
}

// WriteToFile writes a formatted report to a file.
func WriteToFile(report *site.Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}

	data, err := FormatReport(report, format)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// summary holds the counts shared by every format.
type summary struct {
	Scanned  int `json:"scanned" yaml:"scanned" xml:"scanned"`
	Rendered int `json:"rendered" yaml:"rendered" xml:"rendered"`
	Skipped  int `json:"skipped" yaml:"skipped" xml:"skipped"`
	Failed   int `json:"failed" yaml:"failed" xml:"failed"`
	Indexes  int `json:"indexes" yaml:"indexes" xml:"indexes"`
	Media    int `json:"media" yaml:"media" xml:"media"`
}

func summarize(report *site.Report) summary {
	s := summary{
		Rendered: len(report.Pages),
		Skipped:  len(report.Skipped),
		Failed:   len(report.Failed),
		Indexes:  len(report.Indexes),
		Media:    len(report.Media),
	}
	if report.Stats != nil {
		s.Scanned = report.Stats.FilesScanned
	} else {
		s.Scanned = s.Rendered + s.Skipped + s.Failed
	}
	return s
}

// errorText renders a failure's error, tolerating a nil error.
func errorText(f site.Failure) string {
	if f.Err == nil {
		return "unknown error"
	}
	return f.Err.Error()
}
