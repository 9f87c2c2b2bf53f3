package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/artifacts/bandit"
	"github.com/shipgatedev/shipgate/pkg/artifacts/depscan"
	"github.com/shipgatedev/shipgate/pkg/artifacts/gitleaks"
	"github.com/shipgatedev/shipgate/pkg/artifacts/gosec"
	"github.com/shipgatedev/shipgate/pkg/encoding"
)

// NewPrintCommand will pretty print a scan report table, pipedFile can be
// piped input from standard in
func NewPrintCommand(pipedFile *os.File) *cobra.Command {
	var command = &cobra.Command{
		Use:     "print [FILE ...]",
		Short:   "Pretty print a security scan report",
		Example: "shipgate print bandit-report.json gosec-report.json",
		RunE: func(cmd *cobra.Command, args []string) error {

			if pipedFile != nil {
				log.Infof("Piped File Received: %s", pipedFile.Name())
				printReport(cmd.OutOrStdout(), pipedFile)
			}

			for _, filename := range args {
				log.Infof("Opening file: %s", filename)
				f, err := os.Open(filename)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrorFileAccess, err)
				}
				printReport(cmd.OutOrStdout(), f)
				_ = f.Close()
			}

			return nil
		},
	}

	return command
}

// printReport tries each report decoder in turn and prints the table for
// the first one that accepts the content. Unrecognized content is skipped.
func printReport(w io.Writer, r io.Reader) {
	raw, err := io.ReadAll(r)
	if err != nil {
		log.Warnf("reading report: %v", err)
		return
	}

	decoders := []encoding.WriterDecoder{
		bandit.NewReportDecoder(),
		gosec.NewReportDecoder(),
		gitleaks.NewReportDecoder(),
		depscan.NewReportDecoder(),
	}

	for _, decoder := range decoders {
		v, err := decoder.DecodeFrom(bytes.NewReader(raw))
		if err != nil {
			continue
		}
		// the line decoder accepts anything by skipping non-JSON lines, so
		// zero decoded records means the content matched nothing
		if records, ok := v.(*[]depscan.Record); ok && len(*records) == 0 {
			continue
		}
		_, _ = strings.NewReader(reportString(v)).WriteTo(w)
		return
	}
	log.Warnf("content does not match any supported report format")
}

func reportString(v any) string {
	switch report := v.(type) {
	case *bandit.ScanReport:
		return report.String()
	case *gosec.ScanReport:
		return report.String()
	case *gitleaks.ScanReport:
		return report.String()
	case *[]depscan.Record:
		return depscan.ScanReport(*report).String()
	}
	return ""
}
