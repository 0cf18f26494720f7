package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"accent-check-go/internal/pipeline"
	"accent-check-go/internal/types"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var accent string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <video-url>",
		Short: "Run one media URL through the local pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Pipeline.Run(cmd.Context(), pipeline.Request{VideoURL: args[0], RequestedAccent: accent})
			if err != nil {
				pe := pipeline.AsError(err)
				return fmt.Errorf("%s: %s", pe.Kind, pe.Message())
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderClassification(viewFor(cmd.OutOrStdout()), resp))
			return nil
		},
	}
	cmd.Flags().StringVarP(&accent, "accent", "a", "", "Requested accent description")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderClassification(v view, resp types.ClassifyResponse) string {
	parsed := "-"
	if resp.RequestedAccentParsed != nil {
		parsed = *resp.RequestedAccentParsed
	}
	fields := []field{
		{"Detected", resp.DetectedAccent},
		{"Confidence", formatProb(resp.Confidence)},
		{"Requested", orDash(resp.RequestedAccentRaw)},
		{"Parsed", parsed},
		{"Match type", resp.MatchType},
		{"Verdict", v.verdict(resp.Verdict)},
	}
	for i, p := range resp.Top3 {
		fields = append(fields, field{"Top " + strconv.Itoa(i+1), p.Accent + " " + formatProb(p.Prob)})
	}
	return v.details("Classification", fields)
}

func formatProb(p float64) string {
	return strconv.FormatFloat(p, 'f', 3, 64)
}
