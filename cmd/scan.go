package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shipgatedev/shipgate/internal/docker"
	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/artifacts/bandit"
	"github.com/shipgatedev/shipgate/pkg/artifacts/gosec"
)

const banditImage = "ghcr.io/pycqa/bandit/bandit:latest"
const gosecImage = "securego/gosec:latest"

type ContainerRuntime interface {
	Run(ctx context.Context, spec docker.RunSpec) ([]byte, error)
}

// NewScanCmd runs the configured scanners in throwaway containers and
// writes their reports to the paths the gate reads from. A scanner's
// non-zero exit signals findings, not a broken run, so the report is kept
// either way.
func NewScanCmd(runtime ContainerRuntime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run security scanners in containers and write their reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFilename, _ := cmd.Flags().GetString("config")
			src, _ := cmd.Flags().GetString("src")

			config, err := LoadConfig(configFilename)
			if err != nil {
				return err
			}
			if runtime == nil {
				return fmt.Errorf("%w: no container runtime available", ErrorUserInput)
			}

			absSrc, err := filepath.Abs(src)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrorFileAccess, err)
			}

			for scanner, reportFile := range config.Gate.Reports {
				spec, ok := scanSpec(scanner, absSrc, config)
				if !ok {
					log.Debugf("no container scanner for %s, expecting an external report at %s", scanner, reportFile)
					continue
				}

				out, err := runtime.Run(cmd.Context(), spec)
				if err != nil {
					// scanners exit non-zero when they find something
					log.Warnf("scanner %s: %v", scanner, err)
				}
				if len(out) == 0 {
					return fmt.Errorf("%w: scanner %s produced no output", ErrorEncoding, scanner)
				}
				if err := os.WriteFile(reportFile, out, 0o644); err != nil {
					return fmt.Errorf("%w: %v", ErrorFileAccess, err)
				}
				cmd.Printf("wrote %s report to %s\n", scanner, reportFile)
			}
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "shipgate.yaml", "The pipeline configuration file")
	cmd.Flags().StringP("src", "s", ".", "The source directory to scan")
	return cmd
}

func scanSpec(scanner string, src string, config Config) (docker.RunSpec, bool) {
	switch scanner {
	case bandit.ScannerID:
		return docker.RunSpec{
			Image:   banditImage,
			Binds:   []string{src + ":/src:ro"},
			Workdir: "/src",
			Args:    []string{"-r", ".", "-f", "json"},
		}, true
	case gosec.ScannerID:
		return docker.RunSpec{
			Image:   gosecImage,
			Binds:   []string{src + ":/src:ro"},
			Workdir: "/src",
			Args:    append(config.Gosec.BuildArgs(), "./..."),
		}, true
	}
	return docker.RunSpec{}, false
}
