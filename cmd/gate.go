package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/artifacts/bandit"
	"github.com/shipgatedev/shipgate/pkg/artifacts/depscan"
	"github.com/shipgatedev/shipgate/pkg/artifacts/gitleaks"
	"github.com/shipgatedev/shipgate/pkg/artifacts/gosec"
	"github.com/shipgatedev/shipgate/pkg/gate"
	"github.com/shipgatedev/shipgate/pkg/scan"
)

func NewGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Aggregate scanner reports and pass or fail them against the severity threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFilename, _ := cmd.Flags().GetString("config")
			auditFlag, _ := cmd.Flags().GetBool("audit")

			config, err := LoadConfig(configFilename)
			if err != nil {
				return err
			}

			verdict, err := evaluateGate(cmd.OutOrStdout(), config.Gate)
			if err != nil {
				return err
			}
			if auditFlag {
				return nil
			}
			if err := verdict.Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrorValidation, err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("audit", false, "Exit w/ Code 0 even if the gate fails")
	cmd.Flags().StringP("config", "c", "", "A configuration file with gate thresholds and report paths")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// evaluateGate reads every configured report, evaluates them against the
// threshold, and writes the verdict table to w.
func evaluateGate(w io.Writer, config gate.Config) (gate.Verdict, error) {
	reports := make([]scan.Report, 0, len(config.Reports))
	for scanner, filename := range config.Reports {
		report, err := reportFile(scanner, filename)
		if err != nil {
			return gate.Verdict{}, err
		}
		if report.Indeterminate() {
			log.Warnf("report for %s is indeterminate: %v", scanner, report.ParseError)
		}
		reports = append(reports, report)
	}

	verdict := gate.Evaluate(reports, config.Options())
	fmt.Fprintln(w, verdict.String())
	return verdict, nil
}

func reportFile(scanner string, filename string) (scan.Report, error) {
	switch scanner {
	case bandit.ScannerID:
		return bandit.ReportFile(filename), nil
	case gitleaks.ScannerID:
		return gitleaks.ReportFile(filename), nil
	case depscan.ScannerID:
		return depscan.ReportFile(filename), nil
	case gosec.ScannerID:
		return gosec.ReportFile(filename), nil
	}
	return scan.Report{}, fmt.Errorf("%w: unsupported scanner '%s'", ErrorUserInput, scanner)
}
