package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"accent-check-go/internal/matcher"
	"accent-check-go/internal/taxonomy"
)

type matchView struct {
	Detected  string  `json:"detected_accent"`
	Raw       string  `json:"requested_accent_raw"`
	Parsed    *string `json:"requested_accent_parsed"`
	Match     bool    `json:"match"`
	MatchType string  `json:"match_type"`
	Verdict   string  `json:"verdict"`
}

func newMatchCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "match <detected-label> [requested description...]",
		Short:       "Check a detected accent against a description without audio",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			detected, _ := taxonomy.Parse(args[0])
			raw := strings.Join(args[1:], " ")
			v := matcher.Evaluate(detected, raw)
			mv := matchView{
				Detected:  string(v.Detected),
				Raw:       v.RequestedRaw,
				Parsed:    v.Requested.Ptr(),
				Match:     v.IsMatch,
				MatchType: string(v.Reason),
				Verdict:   v.Label(),
			}
			if asJSON {
				return writeJSON(cmd, mv)
			}
			out := viewFor(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), out.details("Accent match", []field{
				{"Detected", orDash(mv.Detected)},
				{"Requested", orDash(mv.Raw)},
				{"Parsed", v.Requested.String()},
				{"Match", yesNo(mv.Match)},
				{"Match type", mv.MatchType},
				{"Verdict", out.verdict(mv.Verdict)},
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
