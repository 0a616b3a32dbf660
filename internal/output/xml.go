package output

import (
	"encoding/xml"

	"github.com/notepress/notepress/internal/site"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	XMLName     xml.Name    `xml:"report"`
	GeneratedAt string      `xml:"generated_at,attr"`
	Source      string      `xml:"source,attr"`
	SiteDir     string      `xml:"site_dir,attr"`
	Summary     summary     `xml:"summary"`
	Pages       xmlPages    `xml:"pages"`
	Skipped     *xmlSkipped `xml:"skipped,omitempty"`
	Failed      *xmlFailed  `xml:"failed,omitempty"`
	Indexes     *xmlPaths   `xml:"indexes,omitempty"`
	Media       *xmlPaths   `xml:"media,omitempty"`
}

type xmlPages struct {
	Pages []xmlPage `xml:"page"`
}

type xmlPage struct {
	Source string   `xml:"source,attr"`
	Dest   string   `xml:"dest,attr"`
	Media  []string `xml:"media,omitempty"`
}

type xmlSkipped struct {
	Items []xmlSkippedItem `xml:"note"`
}

type xmlSkippedItem struct {
	File   string `xml:"file,attr"`
	Reason string `xml:"reason,attr"`
	Rule   string `xml:",chardata"`
}

type xmlFailed struct {
	Items []xmlFailure `xml:"failure"`
}

type xmlFailure struct {
	File  string `xml:"file,attr"`
	Error string `xml:",chardata"`
}

type xmlPaths struct {
	Paths []string `xml:"path"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *site.Report) ([]byte, error) {
	output := xmlOutput{
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		Source:      report.Source,
		SiteDir:     report.SiteDir,
		Summary:     summarize(report),
		Pages: xmlPages{
			Pages: make([]xmlPage, 0, len(report.Pages)),
		},
	}

	for _, p := range report.Pages {
		output.Pages.Pages = append(output.Pages.Pages, xmlPage(p))
	}

	if len(report.Skipped) > 0 {
		output.Skipped = &xmlSkipped{Items: make([]xmlSkippedItem, len(report.Skipped))}
		for i, s := range report.Skipped {
			output.Skipped.Items[i] = xmlSkippedItem{File: s.File, Reason: s.Type, Rule: s.Rule}
		}
	}
	if len(report.Failed) > 0 {
		output.Failed = &xmlFailed{Items: make([]xmlFailure, len(report.Failed))}
		for i, f := range report.Failed {
			output.Failed.Items[i] = xmlFailure{File: f.File, Error: errorText(f)}
		}
	}
	if len(report.Indexes) > 0 {
		output.Indexes = &xmlPaths{Paths: report.Indexes}
	}
	if len(report.Media) > 0 {
		output.Media = &xmlPaths{Paths: report.Media}
	}

	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
