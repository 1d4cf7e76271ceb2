package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logbundle/internal/archive"
	"logbundle/internal/retention"
)

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var days int
	var maxBundles int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old bundles from the archive directory",
		Long: `Removes bundles older than the retention age and bundles beyond the
retention count (newest kept). Limits come from the [retention] config
section; flags override them for a single invocation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			limits := retention.Limits{
				Days:       cfg.Retention.Days,
				MaxBundles: cfg.Retention.MaxBundles,
			}
			if cmd.Flags().Changed("days") {
				limits.Days = days
			}
			if cmd.Flags().Changed("max-bundles") {
				limits.MaxBundles = maxBundles
			}

			bundles, err := archive.List(cfg.Paths.ArchiveDir, cfg.Archive.NamePrefix)
			if err != nil {
				return fmt.Errorf("list bundles: %w", err)
			}

			result := retention.Prune(bundles, limits, ctx.ensureLogger())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d of %d bundles\n", len(result.Removed), len(bundles))
			if len(result.Errors) > 0 {
				return fmt.Errorf("prune finished with %d errors", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Remove bundles older than this many days (overrides config)")
	cmd.Flags().IntVar(&maxBundles, "max-bundles", 0, "Keep at most this many bundles (overrides config)")
	return cmd
}
