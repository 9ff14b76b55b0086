package main

import (
	"encoding/json"
	"fmt"
	"os"

	"probe-go/internal/cli"
	"probe-go/internal/configuration"
	"probe-go/internal/database"
	"probe-go/internal/models"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		target string
		limit  int
	)

	reportCmd := &cobra.Command{
		Use:   "report --journal <file>",
		Short: "Print recorded monitoring sessions",
		Long: `Print the sessions recorded with --journal as JSON, newest first.

Each session carries its final statistics and the list of health transitions.
With --target only sessions of that host are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, _ := cmd.Flags().GetString(configuration.KeyJournal)
			if journal == "" {
				return cli.Usage(fmt.Errorf("--journal is required"))
			}
			if limit < 0 {
				return cli.Usage(fmt.Errorf("--limit must not be negative"))
			}

			out := cmd.OutOrStdout()

			if _, err := os.Stat(journal); err != nil {
				models.Response{
					Message: "journal not found",
					Data:    journal,
				}.Print(out)
				return cli.Exit(cli.ExitFailure)
			}

			db, err := database.InitializeDatabase(journal)
			if err != nil {
				models.Response{
					Message: "failed to open journal",
				}.Print(out)
				return cli.Exit(cli.ExitFailure)
			}
			defer db.Close()

			sessions, err := db.ListSessions(target, limit)
			if err != nil {
				models.Response{
					Message: "failed to read journal",
				}.Print(out)
				return cli.Exit(cli.ExitFailure)
			}

			output, err := json.Marshal(sessions)
			if err != nil {
				return fmt.Errorf("error while encoding result: %w", err)
			}

			fmt.Fprintln(out, string(output))
			return nil
		},
	}

	reportCmd.Flags().StringVar(&target, "target", "", "only show sessions of this target")
	reportCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of sessions")

	return reportCmd
}
