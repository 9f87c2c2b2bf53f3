// Package scan holds the normalized finding model shared between the
// scanner adapters and the security gate.
package scan

import "github.com/shipgatedev/shipgate/pkg/severity"

// Finding is a single issue reported by a scanner, normalized to the common
// severity model. Findings are produced only by adapters and never modified
// after parse.
type Finding struct {
	// Scanner identifies the tool that produced the finding.
	Scanner string
	// RuleID is the tool's rule or kind identifier.
	RuleID string
	// Severity is the normalized severity.
	Severity severity.Severity
	// Raw carries the opaque tool-specific record for diagnostics.
	Raw any
}

// Report is one scanner's contribution to a gate evaluation.
//
// A report with ParseError set is an indeterminate scan: the tool may have
// run, but its output could not be read. It contributes zero findings and is
// distinct from a scan that ran and found nothing.
type Report struct {
	Scanner    string
	Findings   []Finding
	ParseError error
}

// Indeterminate reports whether the scan's result is uncertain.
func (r Report) Indeterminate() bool {
	return r.ParseError != nil
}
