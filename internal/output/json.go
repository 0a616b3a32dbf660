package output

import (
	"encoding/json"

	"github.com/notepress/notepress/internal/site"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// jsonOutput is the JSON structure for output.
type jsonOutput struct {
	GeneratedAt string         `json:"generated_at"`
	Source      string         `json:"source"`
	SiteDir     string         `json:"site_dir"`
	Summary     summary        `json:"summary"`
	Pages       []jsonPage     `json:"pages"`
	Skipped     []jsonSkipped  `json:"skipped,omitempty"`
	Failed      []jsonFailure  `json:"failed,omitempty"`
	Indexes     []string       `json:"indexes,omitempty"`
	Media       []string       `json:"media,omitempty"`
	Stats       map[string]any `json:"stats,omitempty"`
}

type jsonPage struct {
	Source string   `json:"source"`
	Dest   string   `json:"dest"`
	Media  []string `json:"media,omitempty"`
}

type jsonSkipped struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
	Rule   string `json:"rule,omitempty"`
}

type jsonFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Format implements Formatter.
func (*JSONFormatter) Format(report *site.Report) ([]byte, error) {
	output := jsonOutput{
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		Source:      report.Source,
		SiteDir:     report.SiteDir,
		Summary:     summarize(report),
		Pages:       make([]jsonPage, 0, len(report.Pages)),
		Indexes:     report.Indexes,
		Media:       report.Media,
	}

	for _, p := range report.Pages {
		output.Pages = append(output.Pages, jsonPage(p))
	}
	for _, s := range report.Skipped {
		output.Skipped = append(output.Skipped, jsonSkipped{File: s.File, Reason: s.Type, Rule: s.Rule})
	}
	for _, f := range report.Failed {
		output.Failed = append(output.Failed, jsonFailure{File: f.File, Error: errorText(f)})
	}
	if report.Stats != nil {
		output.Stats = report.Stats.ToJSON()
	}

	return json.MarshalIndent(output, "", "  ")
}
