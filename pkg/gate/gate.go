// Package gate aggregates normalized scanner reports into a single pass or
// fail verdict against a severity threshold.
package gate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/filter"
	gcf "github.com/shipgatedev/shipgate/pkg/format"
	"github.com/shipgatedev/shipgate/pkg/scan"
	"github.com/shipgatedev/shipgate/pkg/severity"
)

var ErrValidation = errors.New("security gate failure")

// Config is the gate section of the pipeline configuration file.
type Config struct {
	// Threshold is the lowest severity that fails the gate. Defaults to high
	// so labeling edge cases can never let a HIGH finding through.
	Threshold string `yaml:"threshold" json:"threshold"`
	// Strict fails the gate when any report is indeterminate.
	Strict bool `yaml:"strict" json:"strict"`
	// Reports maps scanner identifier to report file path.
	Reports map[string]string `yaml:"reports,omitempty" json:"reports,omitempty"`
}

func (c Config) Options() Options {
	threshold := severity.High
	if c.Threshold != "" {
		threshold = severity.Parse(c.Threshold)
		if threshold == severity.Unknown {
			// an unrecognized threshold must not loosen the gate
			threshold = severity.High
		}
	}
	return Options{Threshold: threshold, Strict: c.Strict}
}

type Options struct {
	Threshold severity.Severity
	Strict    bool
}

// Verdict is the outcome of one gate evaluation. It is computed once and
// never mutated.
type Verdict struct {
	Passed        bool
	Threshold     severity.Severity
	Counts        map[severity.Severity]int
	Summaries     map[string]string
	Indeterminate []string
}

// Evaluate is a pure function of its inputs: the same reports and options
// always produce the same verdict.
func Evaluate(reports []scan.Report, opts Options) Verdict {
	verdict := Verdict{
		Passed:    true,
		Threshold: opts.Threshold,
		Counts:    map[severity.Severity]int{},
		Summaries: map[string]string{},
	}

	for _, report := range reports {
		verdict.Summaries[report.Scanner] = summarize(report, opts.Threshold)

		if report.Indeterminate() {
			verdict.Indeterminate = append(verdict.Indeterminate, report.Scanner)
			log.Warnf("%s scan is indeterminate: %v", report.Scanner, report.ParseError)
			if opts.Strict {
				verdict.Passed = false
			}
			continue
		}

		for _, finding := range report.Findings {
			verdict.Counts[finding.Severity]++
			if finding.Severity.AtOrAbove(opts.Threshold) {
				verdict.Passed = false
			}
		}
	}
	sort.Strings(verdict.Indeterminate)

	log.Infof("gate verdict: passed=%v findings=%s", verdict.Passed, gcf.PrettyPrintMap(verdict.Counts))
	return verdict
}

func summarize(report scan.Report, threshold severity.Severity) string {
	if report.Indeterminate() {
		return fmt.Sprintf("indeterminate, report could not be parsed: %v", report.ParseError)
	}
	if len(report.Findings) == 0 {
		return "no findings"
	}
	blocking := filter.Count(report.Findings, func(f scan.Finding) bool {
		return f.Severity.AtOrAbove(threshold)
	})
	parts := make([]string, 0, 4)
	for _, level := range severity.Levels() {
		n := filter.Count(report.Findings, func(f scan.Finding) bool { return f.Severity == level })
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(level.String())))
		}
	}
	return fmt.Sprintf("%d findings (%s), %d at or above threshold", len(report.Findings), strings.Join(parts, ", "), blocking)
}

// Err returns nil for a passing verdict, otherwise an ErrValidation wrapped
// with the severity breakdown.
func (v Verdict) Err() error {
	if v.Passed {
		return nil
	}
	if len(v.Indeterminate) > 0 && !v.hasBlockingFindings() {
		return fmt.Errorf("%w: indeterminate scans under strict mode: %s",
			ErrValidation, strings.Join(v.Indeterminate, ", "))
	}
	return fmt.Errorf("%w: findings at or above %s %s", ErrValidation, v.Threshold, gcf.PrettyPrintMap(v.Counts))
}

func (v Verdict) hasBlockingFindings() bool {
	for level, n := range v.Counts {
		if n > 0 && level.AtOrAbove(v.Threshold) {
			return true
		}
	}
	return false
}

// String renders the severity breakdown and the per-scanner summary lines so
// a human can triage without opening raw report files.
func (v Verdict) String() string {
	var sb strings.Builder

	table := new(gcf.Table).WithHeader("Severity", "Count")
	for _, level := range severity.Levels() {
		table = table.WithRow(level.String(), fmt.Sprintf("%d", v.Counts[level]))
	}
	sb.WriteString(table.String())
	sb.WriteString("\n")

	scanners := make([]string, 0, len(v.Summaries))
	for name := range v.Summaries {
		scanners = append(scanners, name)
	}
	sort.Strings(scanners)
	for _, name := range scanners {
		sb.WriteString(fmt.Sprintf("%s: %s\n", name, v.Summaries[name]))
	}

	status := "PASS"
	if !v.Passed {
		status = "FAIL"
	}
	sb.WriteString(fmt.Sprintf("\nGate: %s (threshold %s)\n", status, v.Threshold))
	return sb.String()
}
