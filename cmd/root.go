package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/internal/toolchain"
	"github.com/shipgatedev/shipgate/pkg/artifacts/gosec"
	"github.com/shipgatedev/shipgate/pkg/export/objectstore"
	"github.com/shipgatedev/shipgate/pkg/gate"
	"github.com/shipgatedev/shipgate/pkg/release"
	"github.com/shipgatedev/shipgate/pkg/tagger"
)

var (
	ErrorFileAccess     = errors.New("file access")
	ErrorEncoding       = errors.New("encoding")
	ErrorValidation     = errors.New("validation")
	ErrorAPI            = errors.New("request API")
	ErrorUserInput      = errors.New("user error")
	GlobalVerboseOutput = false
)

type Toolchain interface {
	Clean(ctx context.Context) error
	Test(ctx context.Context) error
	Build(ctx context.Context, spec toolchain.BuildSpec) error
}

type ReleasePublisher interface {
	Publish(ctx context.Context, set release.ArtifactSet) (release.PublishResult, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, filePath string, objectName string, expiry time.Duration) (objectstore.Result, error)
}

type CLIConfig struct {
	Version       string
	PipedInput    *os.File
	SourceControl tagger.SourceControl
	Toolchain     Toolchain
	// NewPublisherFunc builds a release host client for the repository named
	// in the pipeline configuration file. Nil when no token is configured.
	NewPublisherFunc func(repository string) ReleasePublisher
	Runtime          ContainerRuntime
	// ObjectStore is nil when no storage credentials are configured.
	ObjectStore  ObjectStore
	StageTimeout time.Duration
}

func NewRootCommand(config CLIConfig) *cobra.Command {
	command := &cobra.Command{
		Use:     "shipgate",
		Version: config.Version,
		Short:   "Release pipeline orchestration with a security gate",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.Init(GlobalVerboseOutput)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global Flags
	command.PersistentFlags().BoolVarP(&GlobalVerboseOutput, "verbose", "v", false, "Verbose debug output")

	// Commands
	command.AddCommand(NewVersionCmd(config.Version))
	command.AddCommand(NewConfigCmd())
	command.AddCommand(NewPrintCommand(config.PipedInput))
	command.AddCommand(NewScanCmd(config.Runtime))
	command.AddCommand(NewGateCmd())
	command.AddCommand(NewTagCmd(config.SourceControl))
	command.AddCommand(NewCICmd(config))
	command.AddCommand(NewReleaseCmd(config))

	return command
}

func NewVersionCmd(version string) *cobra.Command {
	command := &cobra.Command{
		Use: "version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("A utility for orchestrating release pipelines behind a security gate")
			cmd.Println("Version:", version)
			return nil
		},
	}

	return command
}

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pipeline configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "prints a new configuration file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configMap := map[string]any{
				"version":             "1",
				"gate":                gate.Config{Threshold: "high"},
				gosec.ConfigFieldName: gosec.Config{},
				"release":             release.Config{StagingDir: "dist/release"},
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(configMap)
		},
	}

	cmd.AddCommand(initCmd)

	return cmd
}
