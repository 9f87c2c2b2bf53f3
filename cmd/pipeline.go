package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shipgatedev/shipgate/internal/toolchain"
	"github.com/shipgatedev/shipgate/pkg/pipeline"
	"github.com/shipgatedev/shipgate/pkg/release"
	"github.com/shipgatedev/shipgate/pkg/semver"
	"github.com/shipgatedev/shipgate/pkg/tagger"
)

func NewCICmd(config CLIConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Run the continuous integration pipeline: tests then the security gate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFilename, _ := cmd.Flags().GetString("config")
			fileConfig, err := LoadConfig(configFilename)
			if err != nil {
				return err
			}
			if config.Toolchain == nil {
				return fmt.Errorf("%w: no build toolchain available", ErrorUserInput)
			}

			stages := []pipeline.Stage{
				{Name: "test", Run: config.Toolchain.Test},
				{Name: "security-gate", Run: gateStage(cmd.OutOrStdout(), fileConfig)},
			}
			return runStages(cmd, config, stages)
		},
	}

	cmd.Flags().StringP("config", "c", "shipgate.yaml", "The pipeline configuration file")
	return cmd
}

func NewReleaseCmd(config CLIConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the release pipeline: gate, build, tag, and publish",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFilename, _ := cmd.Flags().GetString("config")
			skipTests, _ := cmd.Flags().GetBool("skip-tests")
			skipGate, _ := cmd.Flags().GetBool("skip-gate")
			skipUpload, _ := cmd.Flags().GetBool("skip-upload")

			fileConfig, err := LoadConfig(configFilename)
			if err != nil {
				return err
			}
			for name, dep := range map[string]any{
				"build toolchain": config.Toolchain,
				"source control":  config.SourceControl,
			} {
				if dep == nil {
					return fmt.Errorf("%w: no %s available", ErrorUserInput, name)
				}
			}
			if config.NewPublisherFunc == nil {
				return fmt.Errorf("%w: no release host token configured", ErrorUserInput)
			}
			if fileConfig.Release.Repository == "" {
				return fmt.Errorf("%w: no repository configured in %s", ErrorUserInput, configFilename)
			}
			publisher := config.NewPublisherFunc(fileConfig.Release.Repository)

			// Resolved by the version stage, consumed by the ones after it.
			var tag semver.Tag
			var tagReused bool
			var artifacts release.ArtifactSet

			var stages []pipeline.Stage
			if !skipTests {
				stages = append(stages, pipeline.Stage{Name: "test", Run: config.Toolchain.Test})
			}
			if !skipGate {
				stages = append(stages, pipeline.Stage{
					Name: "security-gate",
					Run:  gateStage(cmd.OutOrStdout(), fileConfig),
				})
			}
			stages = append(stages,
				pipeline.Stage{Name: "version", Run: func(ctx context.Context) error {
					var err error
					tag, tagReused, err = tagger.New(config.SourceControl).Next(ctx)
					return err
				}},
				pipeline.Stage{Name: "clean", Run: config.Toolchain.Clean},
				pipeline.Stage{Name: "build", Run: func(ctx context.Context) error {
					return config.Toolchain.Build(ctx, toolchain.BuildSpec{
						Output:  fileConfig.Release.Binary,
						Version: tag.String(),
					})
				}},
				pipeline.Stage{Name: "tag", Run: func(ctx context.Context) error {
					if tagReused {
						return nil
					}
					return tagger.New(config.SourceControl).Publish(ctx, tag)
				}},
				pipeline.Stage{Name: "assemble", Run: func(ctx context.Context) error {
					var err error
					artifacts, err = release.Assemble(fileConfig.Release, tag)
					return err
				}},
				pipeline.Stage{Name: "publish", Run: func(ctx context.Context) error {
					result, err := publisher.Publish(ctx, artifacts)
					if err != nil {
						return err
					}
					if result.Existing {
						cmd.Printf("release %d for %s already existed, assets updated\n", result.ReleaseID, tag)
						return nil
					}
					cmd.Printf("published release %d for %s\n", result.ReleaseID, tag)
					return nil
				}},
			)
			if !skipUpload && config.ObjectStore != nil {
				stages = append(stages, pipeline.Stage{Name: "upload", Run: func(ctx context.Context) error {
					return uploadArtifacts(ctx, cmd.OutOrStdout(), config.ObjectStore, &artifacts)
				}})
			}

			return runStages(cmd, config, stages)
		},
	}

	cmd.Flags().StringP("config", "c", "shipgate.yaml", "The pipeline configuration file")
	cmd.Flags().Bool("skip-tests", false, "Skip the test stage")
	cmd.Flags().Bool("skip-gate", false, "Skip the security gate stage")
	cmd.Flags().Bool("skip-upload", false, "Skip the object storage upload stage")
	return cmd
}

func runStages(cmd *cobra.Command, config CLIConfig, stages []pipeline.Stage) error {
	runner := &pipeline.Runner{StageTimeout: config.StageTimeout}
	run := runner.Run(cmd.Context(), stages)
	cmd.Print(run.String())

	if run.Failed() {
		last := run.Results[len(run.Results)-1]
		return fmt.Errorf("%w: stage %s: %v", ErrorValidation, last.Name, last.Err)
	}
	return nil
}

func gateStage(w io.Writer, fileConfig Config) func(ctx context.Context) error {
	return func(_ context.Context) error {
		verdict, err := evaluateGate(w, fileConfig.Gate)
		if err != nil {
			return err
		}
		return verdict.Err()
	}
}

// uploadArtifacts mirrors the staged release files to object storage and
// prints a shareable link for each.
func uploadArtifacts(ctx context.Context, w io.Writer, store ObjectStore, set *release.ArtifactSet) error {
	for _, file := range set.Files {
		result, err := store.Upload(ctx, file, set.Tag.String()+"/"+filepath.Base(file), 7*24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "uploaded %s\n%s\n", result.ObjectName, result.ShareURL)
	}
	return nil
}
