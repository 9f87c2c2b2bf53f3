package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipgatedev/shipgate/pkg/tagger"
)

func NewTagCmd(sc tagger.SourceControl) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Resolve and publish release version tags",
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Print the tag the next release would use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sc == nil {
				return fmt.Errorf("%w: no source control available", ErrorUserInput)
			}
			tag, reused, err := tagger.New(sc).Next(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrorAPI, err)
			}
			if reused {
				cmd.Printf("%s (existing tag at HEAD)\n", tag)
				return nil
			}
			cmd.Println(tag.String())
			return nil
		},
	}

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Create the next tag and push it to the remote",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sc == nil {
				return fmt.Errorf("%w: no source control available", ErrorUserInput)
			}
			t := tagger.New(sc)
			tag, reused, err := t.Next(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrorAPI, err)
			}
			if reused {
				cmd.Printf("%s already exists at HEAD, nothing to publish\n", tag)
				return nil
			}
			if err := t.Publish(cmd.Context(), tag); err != nil {
				return fmt.Errorf("%w: %v", ErrorAPI, err)
			}
			cmd.Printf("published %s\n", tag)
			return nil
		},
	}

	cmd.AddCommand(nextCmd)
	cmd.AddCommand(publishCmd)

	return cmd
}
