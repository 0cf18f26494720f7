package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// field is one line of a two-column detail view.
type field struct {
	name  string
	value string
}

// view renders command output. On a terminal it draws rounded borders and
// colors verdicts; anywhere else it sticks to plain ASCII without escapes.
type view struct {
	color bool
}

func viewFor(w io.Writer) view {
	f, ok := w.(*os.File)
	if !ok {
		return view{}
	}
	return view{color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (v view) writer() table.Writer {
	tw := table.NewWriter()
	if v.color {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	return tw
}

// verdict renders PASS, FAIL or ERROR.
func (v view) verdict(s string) string {
	if !v.color {
		return s
	}
	switch s {
	case "PASS":
		return text.Colors{text.FgGreen, text.Bold}.Sprint(s)
	case "FAIL":
		return text.Colors{text.FgRed, text.Bold}.Sprint(s)
	default:
		return text.Colors{text.FgYellow}.Sprint(s)
	}
}

// details renders name/value pairs under a title, without a header row.
func (v view) details(title string, fields []field) string {
	tw := v.writer()
	tw.SetTitle(title)
	for _, f := range fields {
		tw.AppendRow(table.Row{f.name, f.value})
	}
	if v.color {
		tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Colors: text.Colors{text.Bold}}})
	}
	return tw.Render()
}

// list renders one row per item. Columns named by number in right are
// right-aligned; a nil footer is omitted.
func (v view) list(header table.Row, rows []table.Row, footer table.Row, right ...int) string {
	tw := v.writer()
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	if footer != nil {
		tw.AppendFooter(footer)
	}
	configs := make([]table.ColumnConfig, 0, len(right))
	for _, n := range right {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
