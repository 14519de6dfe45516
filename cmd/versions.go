package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// versionsCmd represents the versions command.
var versionsCmd = newVersionsCmd()

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the configured interpreter versions",
		Long:  "Lists each target interpreter version, its base build image, and whether its sources are rewritten for legacy syntax.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			versions, err := configuredVersions()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Version", "Base Image", "Legacy Rewrite"})
			table.SetBorder(false)
			table.SetCenterSeparator("")

			for _, version := range versions {
				rewrite := ""
				if version.LegacySyntax {
					rewrite = "yes"
				}

				table.Append([]string{version.ID, version.BaseImage, rewrite})
			}

			table.Render()

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
