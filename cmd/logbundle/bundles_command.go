package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"logbundle/internal/archive"
)

func newBundlesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "bundles",
		Short: "List bundles in the archive directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			bundles, err := archive.List(cfg.Paths.ArchiveDir, cfg.Archive.NamePrefix)
			if err != nil {
				return fmt.Errorf("list bundles: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, bundles)
			}

			out := cmd.OutOrStdout()
			if len(bundles) == 0 {
				fmt.Fprintln(out, "No bundles found")
				return nil
			}

			rows := make([][]string, 0, len(bundles))
			for _, b := range bundles {
				rows = append(rows, []string{
					b.Name,
					formatBytes(b.Size),
					humanize.Time(b.ModTime),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"BUNDLE", "SIZE", "CREATED"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the bundle list as JSON")
	return cmd
}
