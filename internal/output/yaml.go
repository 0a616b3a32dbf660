package output

import (
	"gopkg.in/yaml.v3"

	"github.com/notepress/notepress/internal/site"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

// yamlOutput is the YAML structure for output.
type yamlOutput struct {
	GeneratedAt string        `yaml:"generated_at"`
	Source      string        `yaml:"source"`
	SiteDir     string        `yaml:"site_dir"`
	Summary     summary       `yaml:"summary"`
	Pages       []yamlPage    `yaml:"pages"`
	Skipped     []yamlSkipped `yaml:"skipped,omitempty"`
	Failed      []yamlFailure `yaml:"failed,omitempty"`
	Indexes     []string      `yaml:"indexes,omitempty"`
	Media       []string      `yaml:"media,omitempty"`
}

type yamlPage struct {
	Source string   `yaml:"source"`
	Dest   string   `yaml:"dest"`
	Media  []string `yaml:"media,omitempty"`
}

type yamlSkipped struct {
	File   string `yaml:"file"`
	Reason string `yaml:"reason"`
	Rule   string `yaml:"rule,omitempty"`
}

type yamlFailure struct {
	File  string `yaml:"file"`
	Error string `yaml:"error"`
}

// Format implements Formatter.
func (*YAMLFormatter) Format(report *site.Report) ([]byte, error) {
	output := yamlOutput{
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		Source:      report.Source,
		SiteDir:     report.SiteDir,
		Summary:     summarize(report),
		Pages:       make([]yamlPage, 0, len(report.Pages)),
		Indexes:     report.Indexes,
		Media:       report.Media,
	}

	for _, p := range report.Pages {
		output.Pages = append(output.Pages, yamlPage(p))
	}
	for _, s := range report.Skipped {
		output.Skipped = append(output.Skipped, yamlSkipped{File: s.File, Reason: s.Type, Rule: s.Rule})
	}
	for _, f := range report.Failed {
		output.Failed = append(output.Failed, yamlFailure{File: f.File, Error: errorText(f)})
	}

	return yaml.Marshal(output)
}
