package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logbundle/internal/collector"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var keepStaging bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect the newest log files into a compressed bundle",
		Long: `Selects the most-recently-modified files from each configured source,
copies them into a staging tree with integrity verification, writes a
manifest, and compresses the tree into a tar.gz bundle.

With --dry-run the selection is reported without copying or archiving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			result, err := collector.Collect(cmd.Context(), cfg, ctx.ensureLogger(), collector.Options{
				DryRun:      dryRun,
				KeepStaging: keepStaging,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprintln(out, renderPlanTable(result.Plan))
				fmt.Fprintf(out, "Dry run: %d files (%s) would be collected\n",
					result.Plan.TotalFiles(), formatBytes(result.Plan.TotalBytes()))
				return nil
			}

			fmt.Fprintf(out, "Collected %d files (%s) into %s (%s)\n",
				result.StagedFiles,
				formatBytes(result.Plan.TotalBytes()),
				result.ArchivePath,
				formatBytes(result.ArchiveBytes))
			if missing := result.Plan.MissingSources(); len(missing) > 0 {
				fmt.Fprintf(out, "Missing sources: %v\n", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the selection without copying or archiving")
	cmd.Flags().BoolVar(&keepStaging, "keep-staging", false, "Leave the staging tree in place after archiving")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run result as JSON")
	return cmd
}
