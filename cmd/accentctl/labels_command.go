package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"accent-check-go/internal/taxonomy"
)

type labelView struct {
	Label  string `json:"label"`
	Group  string `json:"group,omitempty"`
	Family string `json:"family,omitempty"`
}

func newLabelsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "labels",
		Short:       "List the accent taxonomy",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]labelView, 0, taxonomy.Size())
			for _, l := range taxonomy.All() {
				v := labelView{Label: string(l)}
				if g, ok := taxonomy.GroupOf(l); ok {
					v.Group = string(g)
				}
				if f, ok := taxonomy.FamilyOf(l); ok {
					v.Family = string(f)
				}
				views = append(views, v)
			}
			if asJSON {
				return writeJSON(cmd, views)
			}
			rows := make([]table.Row, 0, len(views))
			for _, v := range views {
				rows = append(rows, table.Row{v.Label, orDash(v.Group), orDash(v.Family)})
			}
			out := viewFor(cmd.OutOrStdout()).list(table.Row{"Label", "Group", "Family"}, rows, nil)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
