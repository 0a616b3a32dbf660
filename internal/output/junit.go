package output

import (
	"encoding/xml"
	"fmt"
	"path"
	"slices"

	"github.com/notepress/notepress/internal/site"
)

// JUnitFormatter formats reports as JUnit XML for CI/CD integration.
// Every scanned note is a test case grouped by directory: published notes
// pass, filtered notes are skipped and failures fail.
type JUnitFormatter struct{}

// junitTestSuites is the root element for JUnit XML.
type junitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	Skipped   int              `xml:"skipped,attr"`
	TestSuite []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitSkipped struct {
	Message string `xml:"message,attr"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Format implements Formatter.
func (*JUnitFormatter) Format(report *site.Report) ([]byte, error) {
	dirs := map[string]*junitTestSuite{}
	suite := func(file string) *junitTestSuite {
		dir := path.Dir(file)
		s, ok := dirs[dir]
		if !ok {
			s = &junitTestSuite{Name: dir}
			dirs[dir] = s
		}
		s.Tests++
		return s
	}

	for _, p := range report.Pages {
		s := suite(p.Source)
		s.TestCases = append(s.TestCases, junitTestCase{Name: p.Source, ClassName: p.Dest})
	}
	for _, sk := range report.Skipped {
		s := suite(sk.File)
		s.Skipped++
		s.TestCases = append(s.TestCases, junitTestCase{
			Name:      sk.File,
			ClassName: sk.File,
			Skipped:   &junitSkipped{Message: buildSkipMessage(sk.Type, sk.Rule)},
		})
	}
	for _, f := range report.Failed {
		s := suite(f.File)
		s.Failures++
		s.TestCases = append(s.TestCases, junitTestCase{
			Name:      f.File,
			ClassName: f.File,
			Failure: &junitFailure{
				Message: truncateForXML(errorText(f), 200),
				Type:    "failed",
				Content: errorText(f),
			},
		})
	}

	suites := junitTestSuites{
		Name:     "notepress-publish",
		Tests:    len(report.Pages) + len(report.Skipped) + len(report.Failed),
		Failures: len(report.Failed),
		Skipped:  len(report.Skipped),
	}

	names := make([]string, 0, len(dirs))
	for name := range dirs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		suites.TestSuite = append(suites.TestSuite, *dirs[name])
	}

	// An empty vault still produces a valid document.
	if len(suites.TestSuite) == 0 {
		suites.TestSuite = append(suites.TestSuite, junitTestSuite{Name: "all-notes"})
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}

// buildSkipMessage creates a short skip message.
func buildSkipMessage(reason, rule string) string {
	if rule == "" {
		return reason
	}
	return fmt.Sprintf("%s: %s", reason, truncateForXML(rule, 100))
}

// truncateForXML truncates a string for an XML attribute.
func truncateForXML(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
