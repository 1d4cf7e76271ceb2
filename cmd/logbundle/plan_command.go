package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logbundle/internal/source"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which files the next collection would pick up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			plan, err := source.BuildPlan(source.FromConfig(cfg))
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, plan)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPlanTable(plan))
			fmt.Fprintf(out, "%d files, %s total\n", plan.TotalFiles(), formatBytes(plan.TotalBytes()))
			if missing := plan.MissingSources(); len(missing) > 0 {
				fmt.Fprintf(out, "Missing sources: %v\n", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the plan as JSON")
	return cmd
}

func renderPlanTable(plan *source.Plan) string {
	headers := []string{"SOURCE", "FILE", "SIZE", "MODIFIED"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}

	var rows [][]string
	for _, sel := range plan.Selections {
		if sel.Missing {
			rows = append(rows, []string{sel.Source.Name, "(directory missing)", "", ""})
			continue
		}
		if len(sel.Files) == 0 {
			rows = append(rows, []string{sel.Source.Name, "(no files selected)", "", ""})
			continue
		}
		for _, f := range sel.Files {
			rows = append(rows, []string{
				sel.Source.Name,
				f.Name,
				formatBytes(f.Size),
				f.ModTime.Format("2006-01-02 15:04:05"),
			})
		}
	}

	return renderTable(headers, rows, aligns)
}
