// Package gitleaks parses Gitleaks secret-scan reports. A detected secret is
// always critical: every finding normalizes to HIGH, with no gradation.
package gitleaks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shipgatedev/shipgate/internal/fs"
	gce "github.com/shipgatedev/shipgate/pkg/encoding"
	gcf "github.com/shipgatedev/shipgate/pkg/format"
	"github.com/shipgatedev/shipgate/pkg/scan"
	"github.com/shipgatedev/shipgate/pkg/severity"
	"github.com/zricethezav/gitleaks/v8/report"
)

const ReportType = "Gitleaks Scan Report"
const ScannerID = "gitleaks"

type Finding report.Finding

type ScanReport []Finding

func (r ScanReport) String() string {
	table := new(gcf.Table).WithHeader("Rule", "File", "Secret", "Commit")
	for _, finding := range r {
		secret := gcf.Summarize(finding.Secret, 50, gcf.ClipLeft)
		table = table.WithRow(finding.RuleID, finding.File, secret, finding.Commit)
	}
	return table.String()
}

// Findings normalizes every leak record to a HIGH severity finding keyed by
// its rule ID.
func (r ScanReport) Findings() []scan.Finding {
	findings := make([]scan.Finding, 0, len(r))
	for _, leak := range r {
		findings = append(findings, scan.Finding{
			Scanner:  ScannerID,
			RuleID:   leak.RuleID,
			Severity: severity.High,
			Raw:      leak,
		})
	}
	return findings
}

func NewReportDecoder() *ReportDecoder {
	return new(ReportDecoder)
}

// Gitleaks reports are just an array of findings. No findings is '[]' literally
type ReportDecoder struct {
	bytes.Buffer
}

func (d *ReportDecoder) DecodeFrom(r io.Reader) (any, error) {
	_, err := d.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gce.ErrIO, err)
	}
	return d.Decode()
}

func (d *ReportDecoder) Decode() (any, error) {
	obj := ScanReport{}
	err := json.NewDecoder(d).Decode(&obj)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", gce.ErrEncoding, err)
	}

	// Edge Case: the tool emits '[]' when there are no findings
	if len(obj) == 0 {
		return &ScanReport{}, nil
	}

	if obj[0].RuleID == "" {
		return nil, fmt.Errorf("%w: rule id is missing", gce.ErrFailedCheck)
	}

	return &obj, nil
}

func (d *ReportDecoder) FileType() string {
	return ReportType
}

// ReportFile reads a report by path. Missing file or an empty array means
// this scanner contributes nothing; unreadable content is indeterminate.
func ReportFile(filename string) scan.Report {
	rep := scan.Report{Scanner: ScannerID}
	obj, err := fs.ReadDecodeFile(filename, NewReportDecoder())
	if errors.Is(err, os.ErrNotExist) {
		return rep
	}
	if err != nil {
		rep.ParseError = err
		return rep
	}
	rep.Findings = obj.(*ScanReport).Findings()
	return rep
}
