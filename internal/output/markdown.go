package output

import (
	"fmt"
	"strings"

	"github.com/notepress/notepress/internal/helpers"
	"github.com/notepress/notepress/internal/site"
	"github.com/notepress/notepress/internal/stats"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *site.Report) ([]byte, error) {
	// Pre-grow builder: estimate ~120 bytes per note + ~500 bytes header
	var b strings.Builder
	b.Grow((len(report.Pages)+len(report.Skipped)+len(report.Failed))*120 + 500)

	s := summarize(report)

	// Header
	b.WriteString("# Notepress Publish Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Vault:** `%s`  \n", report.Source))
	b.WriteString(fmt.Sprintf("**Site:** `%s`  \n", report.SiteDir))
	b.WriteString(fmt.Sprintf("**Notes Scanned:** %d\n\n", s.Scanned))

	// Summary table
	b.WriteString("## Summary\n\n")
	b.WriteString("| Result | Count |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Rendered | %d |\n", s.Rendered))
	b.WriteString(fmt.Sprintf("| Skipped | %d |\n", s.Skipped))
	b.WriteString(fmt.Sprintf("| Failed | %d |\n", s.Failed))
	b.WriteString(fmt.Sprintf("| Index Pages | %d |\n", s.Indexes))
	b.WriteString(fmt.Sprintf("| Media | %d |\n", s.Media))
	if report.Stats != nil {
		b.WriteString(fmt.Sprintf("| Duration | %s |\n", stats.FormatDuration(report.Stats.TotalDuration())))
	}
	b.WriteString("\n")

	// Failed section
	if len(report.Failed) > 0 {
		b.WriteString(fmt.Sprintf("## Failed (%d)\n\n", len(report.Failed)))
		b.WriteString("| File | Error |\n")
		b.WriteString("|------|-------|\n")
		for _, f := range report.Failed {
			b.WriteString(fmt.Sprintf("| %s | %s |\n",
				escapeMarkdown(f.File), escapeMarkdown(helpers.TruncateText(errorText(f), 80))))
		}
		b.WriteString("\n")
	}

	// Rendered section
	if len(report.Pages) > 0 {
		b.WriteString(fmt.Sprintf("## Rendered (%d)\n\n", len(report.Pages)))
		b.WriteString("| Note | Media |\n")
		b.WriteString("|------|-------|\n")
		for _, p := range report.Pages {
			media := make([]string, 0, len(p.Media))
			for _, m := range p.Media {
				media = append(media, fmt.Sprintf("`%s`", escapeMarkdown(m)))
			}
			b.WriteString(fmt.Sprintf("| %s | %s |\n", escapeMarkdown(p.Dest), strings.Join(media, ", ")))
		}
		b.WriteString("\n")
	}

	// Skipped section
	if len(report.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("## Skipped (%d)\n\n", len(report.Skipped)))
		b.WriteString("| Note | Reason | Rule |\n")
		b.WriteString("|------|--------|------|\n")
		for _, sk := range report.Skipped {
			rule := ""
			if sk.Rule != "" {
				rule = fmt.Sprintf("`%s`", escapeMarkdown(helpers.TruncateText(sk.Rule, 60)))
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeMarkdown(sk.File), sk.Type, rule))
		}
		b.WriteString("\n")
	}

	// Generated pages
	if len(report.Indexes) > 0 {
		b.WriteString(fmt.Sprintf("## Index Pages (%d)\n\n", len(report.Indexes)))
		for _, idx := range report.Indexes {
			b.WriteString(fmt.Sprintf("- `%s`\n", idx))
		}
		b.WriteString("\n")
	}

	if len(report.Media) > 0 {
		b.WriteString(fmt.Sprintf("## Media (%d)\n\n", len(report.Media)))
		for _, m := range report.Media {
			b.WriteString(fmt.Sprintf("- `%s`\n", m))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// escapeMarkdown escapes special markdown characters in a string.
func escapeMarkdown(s string) string {
	// Escape pipe characters which break tables
	s = strings.ReplaceAll(s, "|", "\\|")
	// Escape backticks
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
