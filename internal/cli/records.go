// This file implements the records command for inspecting deploy state.
package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/domain"
	"github.com/mrz1836/pagesmith/internal/task"
)

// AddRecordsCommand adds the records command to the root command.
func AddRecordsCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List deploy records",
		Long: `Lists the deploy records stored under the pagesmith home directory,
newest first. Each record shows the task, its published URLs, and the
outcome of every processed round.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := config.Home()
			if err != nil {
				return err
			}

			store, err := task.NewFileStore(home)
			if err != nil {
				return err
			}

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if flags.Output == OutputJSON {
				return printRecordsJSON(cmd, records)
			}
			return printRecordsText(cmd, records)
		},
	}

	root.AddCommand(cmd)
}

// printRecordsJSON emits the records as a JSON array.
func printRecordsJSON(cmd *cobra.Command, records []*domain.DeployRecord) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// printRecordsText emits a human-readable table.
func printRecordsText(cmd *cobra.Command, records []*domain.DeployRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No deploy records found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tROUNDS\tLAST STATUS\tPAGES URL")

	for _, record := range records {
		lastStatus := "-"
		if round := record.LatestRound(); round != nil {
			lastStatus = string(round.Status)
		}
		pagesURL := record.PagesURL
		if pagesURL == "" {
			pagesURL = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", record.Task, len(record.Rounds), lastStatus, pagesURL)
	}

	return w.Flush()
}
