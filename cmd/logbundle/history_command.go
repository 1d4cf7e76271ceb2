package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logbundle/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded collection runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				id := run.RunID
				if len(id) > 8 {
					id = id[:8]
				}
				rows = append(rows, []string{
					id,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%d", run.FileCount),
					formatBytes(run.TotalBytes),
					formatBytes(run.ArchiveBytes),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"RUN", "STARTED", "FILES", "BYTES", "BUNDLE"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit run history as JSON")
	return cmd
}
