// Package gosec parses Gosec static-analysis reports: a JSON document with
// an "Issues" array where each issue carries a "severity" label. Minimum
// severity and exclusion lists are applied at the tool-invocation boundary
// through Config.BuildArgs, not after parsing.
package gosec

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shipgatedev/shipgate/internal/fs"
	gce "github.com/shipgatedev/shipgate/pkg/encoding"
	gcf "github.com/shipgatedev/shipgate/pkg/format"
	"github.com/shipgatedev/shipgate/pkg/scan"
	"github.com/shipgatedev/shipgate/pkg/severity"
)

const ReportType = "Gosec Scan Report"
const ConfigFieldName = "gosec"
const ScannerID = "gosec"

type Issue struct {
	Severity   string `json:"severity"`
	Confidence string `json:"confidence"`
	RuleID     string `json:"rule_id"`
	Details    string `json:"details"`
	File       string `json:"file"`
	Line       string `json:"line"`
}

type ScanReport struct {
	Issues []Issue `json:"Issues"`
}

func (r ScanReport) String() string {
	table := new(gcf.Table).WithHeader("Severity", "Rule", "File", "Line", "Details")
	for _, issue := range r.Issues {
		table = table.WithRow(
			severity.Parse(issue.Severity).String(),
			issue.RuleID,
			gcf.Summarize(issue.File, 40, gcf.ClipLeft),
			issue.Line,
			gcf.Summarize(issue.Details, 50, gcf.ClipRight),
		)
	}
	return table.String()
}

func (r ScanReport) Findings() []scan.Finding {
	findings := make([]scan.Finding, 0, len(r.Issues))
	for _, issue := range r.Issues {
		findings = append(findings, scan.Finding{
			Scanner:  ScannerID,
			RuleID:   issue.RuleID,
			Severity: severity.Parse(issue.Severity),
			Raw:      issue,
		})
	}
	return findings
}

// Config is the invocation-boundary filter for the scanner. Exclusions
// happen before the tool runs so the report on disk is already filtered.
type Config struct {
	Severity     string   `yaml:"severity" json:"severity"`
	ExcludeRules []string `yaml:"excludeRules,omitempty" json:"excludeRules,omitempty"`
	ExcludeDirs  []string `yaml:"excludeDirs,omitempty" json:"excludeDirs,omitempty"`
}

// BuildArgs renders the scanner's command line arguments, JSON output
// included. The target path argument is appended by the caller.
func (c Config) BuildArgs() []string {
	args := []string{"-fmt=json", "-quiet"}
	if c.Severity != "" {
		args = append(args, fmt.Sprintf("-severity=%s", strings.ToLower(c.Severity)))
	}
	if len(c.ExcludeRules) > 0 {
		args = append(args, fmt.Sprintf("-exclude=%s", strings.Join(c.ExcludeRules, ",")))
	}
	for _, dir := range c.ExcludeDirs {
		args = append(args, fmt.Sprintf("-exclude-dir=%s", dir))
	}
	return args
}

func NewReportDecoder() *gce.JSONWriterDecoder[ScanReport] {
	return gce.NewJSONWriterDecoder[ScanReport](ReportType, checkReport)
}

func checkReport(report *ScanReport) error {
	if report == nil {
		return gce.ErrFailedCheck
	}
	if report.Issues == nil {
		return fmt.Errorf("%w: required field 'Issues' is missing", gce.ErrFailedCheck)
	}
	return nil
}

// ReportFile reads a report by path with the shared adapter policy: missing
// file is an empty report, unreadable content is indeterminate.
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
