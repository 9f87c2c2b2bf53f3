// Package bandit parses Bandit style static-analysis reports: a JSON
// document with a "results" array where each result carries an
// "issue_severity" label.
package bandit

import (
	"errors"
	"fmt"
	"os"

	"github.com/shipgatedev/shipgate/internal/fs"
	gce "github.com/shipgatedev/shipgate/pkg/encoding"
	gcf "github.com/shipgatedev/shipgate/pkg/format"
	"github.com/shipgatedev/shipgate/pkg/scan"
	"github.com/shipgatedev/shipgate/pkg/severity"
)

const ReportType = "Bandit Scan Report"
const ScannerID = "bandit"

type Result struct {
	TestID        string `json:"test_id"`
	TestName      string `json:"test_name"`
	IssueSeverity string `json:"issue_severity"`
	IssueText     string `json:"issue_text"`
	Filename      string `json:"filename"`
	LineNumber    int    `json:"line_number"`
}

type ScanReport struct {
	Results []Result `json:"results"`
}

func (r ScanReport) String() string {
	table := new(gcf.Table).WithHeader("Severity", "Rule", "File", "Line", "Issue")
	for _, item := range r.Results {
		table = table.WithRow(
			severity.Parse(item.IssueSeverity).String(),
			item.TestID,
			gcf.Summarize(item.Filename, 40, gcf.ClipLeft),
			fmt.Sprintf("%d", item.LineNumber),
			gcf.Summarize(item.IssueText, 50, gcf.ClipRight),
		)
	}
	return table.String()
}

// Findings normalizes every result. Unknown severity labels fall to the
// bottom rank rather than raising.
func (r ScanReport) Findings() []scan.Finding {
	findings := make([]scan.Finding, 0, len(r.Results))
	for _, item := range r.Results {
		findings = append(findings, scan.Finding{
			Scanner:  ScannerID,
			RuleID:   item.TestID,
			Severity: severity.Parse(item.IssueSeverity),
			Raw:      item,
		})
	}
	return findings
}

func NewReportDecoder() *gce.JSONWriterDecoder[ScanReport] {
	return gce.NewJSONWriterDecoder[ScanReport](ReportType, checkReport)
}

func checkReport(report *ScanReport) error {
	if report == nil {
		return gce.ErrFailedCheck
	}
	if report.Results == nil {
		return fmt.Errorf("%w: required field 'results' is missing", gce.ErrFailedCheck)
	}
	return nil
}

// ReportFile reads a report by path and normalizes it. A missing file is an
// empty report, never an error: the stage may simply not have produced one.
// Unreadable content is an indeterminate scan.
func ReportFile(filename string) scan.Report {
	report := scan.Report{Scanner: ScannerID}
	obj, err := fs.ReadDecodeFile(filename, NewReportDecoder())
	if errors.Is(err, os.ErrNotExist) {
		return report
	}
	if err != nil {
		report.ParseError = err
		return report
	}
	report.Findings = obj.(*ScanReport).Findings()
	return report
}
