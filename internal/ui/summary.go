package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/notepress/notepress/internal/helpers"
	"github.com/notepress/notepress/internal/site"
)

// pathWidth bounds the note paths printed in lists.
const pathWidth = 60

// Summary renders the outcome of a build. Failures are always listed;
// rendered and skipped notes only when verbose is set.
func Summary(r *site.Report, verbose bool) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Published " + r.SiteDir))
	b.WriteString("\n")

	parts := []string{
		SuccessStyle.Render(fmt.Sprintf("%d rendered", len(r.Pages))),
		WarningStyle.Render(fmt.Sprintf("%d skipped", len(r.Skipped))),
	}
	if r.HasFailures() {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d failed", len(r.Failed))))
	} else {
		parts = append(parts, MutedStyle.Render("0 failed"))
	}
	parts = append(parts,
		StatusStyle.Render(fmt.Sprintf("%d %s", len(r.Indexes), helpers.Plural(len(r.Indexes), "index page"))),
		StatusStyle.Render(fmt.Sprintf("%d media", len(r.Media))),
	)
	b.WriteString("Summary: " + strings.Join(parts, " | ") + "\n")

	if counts := r.SkipCounts(); len(counts) > 0 {
		reasons := make([]string, 0, len(counts))
		for reason := range counts {
			reasons = append(reasons, reason)
		}
		slices.Sort(reasons)
		for i, reason := range reasons {
			reasons[i] = fmt.Sprintf("%s: %d", reason, counts[reason])
		}
		b.WriteString(MutedStyle.Render("Skipped by reason: "+strings.Join(reasons, ", ")) + "\n")
	}

	if r.HasFailures() {
		b.WriteString("\n" + ErrorStyle.Render(fmt.Sprintf("=== Failed (%d) ===", len(r.Failed))) + "\n\n")
		for _, f := range r.Failed {
			msg := "unknown error"
			if f.Err != nil {
				msg = f.Err.Error()
			}
			fmt.Fprintf(&b, "%s %s\n   %s\n", Badge(KindFailed),
				helpers.TruncatePath(f.File, pathWidth), MutedStyle.Render(helpers.TruncateText(msg, 100)))
		}
	}

	if !verbose {
		return b.String()
	}

	if len(r.Pages) > 0 {
		b.WriteString("\n" + SuccessStyle.Render(fmt.Sprintf("=== Rendered (%d) ===", len(r.Pages))) + "\n\n")
		for _, p := range r.Pages {
			fmt.Fprintf(&b, "%s %s\n", Badge(KindRendered), helpers.TruncatePath(p.Dest, pathWidth))
		}
	}
	if len(r.Skipped) > 0 {
		b.WriteString("\n" + WarningStyle.Render(fmt.Sprintf("=== Skipped (%d) ===", len(r.Skipped))) + "\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "%s %s %s\n", Badge(KindSkipped),
				helpers.TruncatePath(s.File, pathWidth), MutedStyle.Render("("+s.Type+")"))
		}
	}

	return b.String()
}
