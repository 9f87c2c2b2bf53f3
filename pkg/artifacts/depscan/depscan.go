// Package depscan parses dependency-vulnerability reports emitted as
// newline-delimited JSON records. Only records whose Type is "vulnerability"
// count as findings, and a known vulnerability is never downgraded: every
// counted record is HIGH.
package depscan

import (
	"errors"
	"os"

	"github.com/shipgatedev/shipgate/internal/fs"
	gce "github.com/shipgatedev/shipgate/pkg/encoding"
	gcf "github.com/shipgatedev/shipgate/pkg/format"
	"github.com/shipgatedev/shipgate/pkg/scan"
	"github.com/shipgatedev/shipgate/pkg/severity"
)

const ReportType = "Dependency Vulnerability Report"
const ScannerID = "depscan"

const recordTypeVulnerability = "vulnerability"

type Record struct {
	Type      string `json:"Type"`
	ID        string `json:"ID"`
	Package   string `json:"Package"`
	Installed string `json:"Installed"`
	FixedIn   string `json:"FixedIn"`
	Title     string `json:"Title"`
}

type ScanReport []Record

// Vulnerabilities returns only the records that count as findings.
func (r ScanReport) Vulnerabilities() []Record {
	out := make([]Record, 0, len(r))
	for _, record := range r {
		if record.Type == recordTypeVulnerability {
			out = append(out, record)
		}
	}
	return out
}

func (r ScanReport) String() string {
	table := new(gcf.Table).WithHeader("ID", "Package", "Installed", "Fixed In", "Title")
	for _, record := range r.Vulnerabilities() {
		table = table.WithRow(record.ID, record.Package, record.Installed, record.FixedIn,
			gcf.Summarize(record.Title, 50, gcf.ClipRight))
	}
	return table.String()
}

func (r ScanReport) Findings() []scan.Finding {
	vulns := r.Vulnerabilities()
	findings := make([]scan.Finding, 0, len(vulns))
	for _, record := range vulns {
		findings = append(findings, scan.Finding{
			Scanner:  ScannerID,
			RuleID:   record.ID,
			Severity: severity.High,
			Raw:      record,
		})
	}
	return findings
}

func NewReportDecoder() *gce.LinesDecoder[Record] {
	// Non-JSON lines are skipped by the decoder, so there is no record-level
	// check to fail; a report of zero records is a clean pass.
	return gce.NewLinesDecoder[Record](ReportType, func(*[]Record) error { return nil })
}

// ReportFile reads a report by path. Missing file means the scanner never
// ran or found nothing; only an unreadable file is indeterminate.
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
	report.Findings = ScanReport(*obj.(*[]Record)).Findings()
	return report
}
