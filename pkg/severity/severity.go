// Package severity defines the shared severity ranking used by every
// scanner adapter and the security gate.
package severity

import "strings"

// Severity is a totally ordered severity level. Unknown ranks below Low so
// a label the pipeline has never seen can neither escalate a pass into a
// failure nor mask a real high severity finding. Unknown findings get their
// own bucket in gate counts so a human can investigate.
type Severity int

const (
	Unknown Severity = iota
	Low
	Medium
	High
)

// Levels in display order, most severe first.
func Levels() []Severity {
	return []Severity{High, Medium, Low, Unknown}
}

// Parse maps a scanner label onto the severity model. Unrecognized labels
// map to Unknown, never an error.
func Parse(label string) Severity {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "LOW":
		return Low
	case "MEDIUM":
		return Medium
	case "HIGH":
		return High
	default:
		return Unknown
	}
}

func (s Severity) String() string {
	switch s {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// Rank returns the numeric position used for threshold comparison.
func (s Severity) Rank() int {
	if s < Unknown || s > High {
		return 0
	}
	return int(s)
}

// AtOrAbove reports whether s ranks at or above threshold.
func (s Severity) AtOrAbove(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}
