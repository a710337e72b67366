// This file implements the init command that scaffolds configuration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/pagesmith/internal/config"
)

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	var project bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Writes a commented default configuration file. By default the global
config at <home>/config.yaml is written; with --project a .pagesmith/
config.yaml is created in the current directory instead. Existing files
are never overwritten.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := targetConfigPath(project)
			if err != nil {
				return err
			}

			created, err := config.WriteDefault(path)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s, leaving it untouched\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "write a project-local config instead of the global one")

	root.AddCommand(cmd)
}

// targetConfigPath resolves where init should write.
func targetConfigPath(project bool) (string, error) {
	if project {
		return config.ProjectConfigPath(), nil
	}
	return config.GlobalConfigPath()
}
