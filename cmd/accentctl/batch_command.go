package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"accent-check-go/internal/dataset"
	"accent-check-go/internal/processor"
	"accent-check-go/internal/types"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var out string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "batch <sheet.xlsx>",
		Short: "Evaluate every row of an xlsx sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := dataset.Load(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			a, err := ctx.buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rep := processor.New(a.Pipeline, a.Log).Process(cmd.Context(), records)
			if out != "" {
				if err := dataset.WriteReport(out, rep.Results, rep.Insight, rep.ActionCard); err != nil {
					return err
				}
			}
			if asJSON {
				return writeJSON(cmd, rep)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBatch(viewFor(cmd.OutOrStdout()), rep))
			if out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			}
			return cmd.Context().Err()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Process at most N rows (0 = all)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write an xlsx report to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderBatch(v view, rep processor.Report) string {
	rows := make([]table.Row, 0, len(rep.Results))
	for _, r := range rep.Results {
		rows = append(rows, batchRow(v, r))
	}
	ins := rep.Insight
	footer := table.Row{ins.Total, "", "", fmt.Sprintf("%d pass / %d fail / %d error", ins.Passed, ins.Failed, ins.Errored),
		fmt.Sprintf("%.0f%%", ins.PassRate*100)}
	out := v.list(table.Row{"Row", "Requested", "Detected", "Match type", "Verdict"}, rows, footer, 1)
	return out + "\n" + rep.ActionCard.Insight + "\n" + rep.ActionCard.Action
}

func batchRow(v view, r types.BatchResult) table.Row {
	if r.Response == nil {
		return table.Row{r.Row, orDash(r.RequestedAccent), "-", r.ErrorKind, v.verdict("ERROR")}
	}
	return table.Row{r.Row, orDash(r.RequestedAccent), r.Response.DetectedAccent, r.Response.MatchType, v.verdict(r.Response.Verdict)}
}
