package gate

import (
	"errors"
	"strings"
	"testing"

	"github.com/shipgatedev/shipgate/pkg/scan"
	"github.com/shipgatedev/shipgate/pkg/severity"
)

func finding(scanner string, sev severity.Severity) scan.Finding {
	return scan.Finding{Scanner: scanner, RuleID: "rule", Severity: sev}
}

func TestEvaluate(t *testing.T) {
	t.Run("fails-iff-finding-at-threshold", func(t *testing.T) {
		reports := []scan.Report{
			{Scanner: "bandit", Findings: []scan.Finding{finding("bandit", severity.Medium)}},
			{Scanner: "gosec", Findings: []scan.Finding{finding("gosec", severity.Low)}},
		}
		verdict := Evaluate(reports, Options{Threshold: severity.High})
		if !verdict.Passed {
			t.Fatal("no HIGH finding, gate must pass")
		}

		reports[0].Findings = append(reports[0].Findings, finding("bandit", severity.High))
		verdict = Evaluate(reports, Options{Threshold: severity.High})
		if verdict.Passed {
			t.Fatal("HIGH finding present, gate must fail")
		}
		if !errors.Is(verdict.Err(), ErrValidation) {
			t.Fatalf("want: %v got: %v", ErrValidation, verdict.Err())
		}
	})

	t.Run("unknown-severity-never-fails-gate", func(t *testing.T) {
		reports := []scan.Report{
			{Scanner: "bandit", Findings: []scan.Finding{finding("bandit", severity.Unknown)}},
		}
		verdict := Evaluate(reports, Options{Threshold: severity.High})
		if !verdict.Passed {
			t.Fatal("unknown severities must not fail the gate by themselves")
		}
		if verdict.Counts[severity.Unknown] != 1 {
			t.Fatal("unknown severities must surface in their own bucket")
		}
	})

	t.Run("scenario-mixed-reports", func(t *testing.T) {
		// static-analysis HIGH+LOW, secret scan empty
		reports := []scan.Report{
			{Scanner: "bandit", Findings: []scan.Finding{
				finding("bandit", severity.High),
				finding("bandit", severity.Low),
			}},
			{Scanner: "gitleaks"},
		}
		verdict := Evaluate(reports, Options{Threshold: severity.High})
		if verdict.Passed {
			t.Fatal("want: failed verdict")
		}
		if verdict.Counts[severity.High] != 1 || verdict.Counts[severity.Low] != 1 {
			t.Fatalf("want: {HIGH:1, LOW:1} got: %v", verdict.Counts)
		}
		if verdict.Summaries["gitleaks"] != "no findings" {
			t.Fatalf("got: %q", verdict.Summaries["gitleaks"])
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		reports := []scan.Report{
			{Scanner: "gosec", Findings: []scan.Finding{finding("gosec", severity.Medium)}},
		}
		a := Evaluate(reports, Options{Threshold: severity.Medium})
		b := Evaluate(reports, Options{Threshold: severity.Medium})
		if a.Passed != b.Passed || a.Counts[severity.Medium] != b.Counts[severity.Medium] {
			t.Fatal("gate must be a pure function of its inputs")
		}
	})
}

func TestParseErrorPolicy(t *testing.T) {
	broken := []scan.Report{
		{Scanner: "depscan", ParseError: errors.New("bad json")},
	}

	t.Run("lenient-default", func(t *testing.T) {
		verdict := Evaluate(broken, Options{Threshold: severity.High})
		if !verdict.Passed {
			t.Fatal("parse errors are a warning by default, not a failure")
		}
		if len(verdict.Indeterminate) != 1 || verdict.Indeterminate[0] != "depscan" {
			t.Fatalf("want: depscan indeterminate got: %v", verdict.Indeterminate)
		}
	})

	t.Run("strict", func(t *testing.T) {
		verdict := Evaluate(broken, Options{Threshold: severity.High, Strict: true})
		if verdict.Passed {
			t.Fatal("strict mode must fail on indeterminate scans")
		}
		err := verdict.Err()
		if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "indeterminate") {
			t.Fatalf("got: %v", err)
		}
	})
}

func TestConfigOptions(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want severity.Severity
	}{
		{"default-is-high", Config{}, severity.High},
		{"explicit-medium", Config{Threshold: "medium"}, severity.Medium},
		{"unrecognized-stays-high", Config{Threshold: "catastrophic"}, severity.High},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Options().Threshold; got != tc.want {
				t.Fatalf("want: %v got: %v", tc.want, got)
			}
		})
	}
}

func TestVerdictString(t *testing.T) {
	verdict := Evaluate([]scan.Report{
		{Scanner: "bandit", Findings: []scan.Finding{finding("bandit", severity.High)}},
	}, Options{Threshold: severity.High})

	out := verdict.String()
	for _, want := range []string{"HIGH", "bandit", "FAIL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
