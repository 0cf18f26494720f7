package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"accent-check-go/internal/actionable"
	"accent-check-go/internal/aggregator"
	"accent-check-go/internal/types"
)

const (
	ResultsSheet = "results"
	SummarySheet = "summary"
)

var resultHeader = []interface{}{
	"row", "video_url", "requested_accent", "requested_parsed", "detected_accent",
	"confidence", "match", "match_type", "verdict", "error_kind", "error", "duration_ms",
}

// WriteReport writes one results row per input plus a summary sheet holding
// the aggregate insight and action card.
func WriteReport(path string, results []types.BatchResult, ins aggregator.Insight, card actionable.ActionCard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeResults(f, results); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	if err := writeSummary(f, ins, card); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, results []types.BatchResult) error {
	if err := setRow(f, ResultsSheet, 1, resultHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(resultHeader), 1)
	if err := f.SetCellStyle(ResultsSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	_ = f.SetColWidth(ResultsSheet, "B", "B", 60)

	for i, res := range results {
		row := []interface{}{res.Row, res.VideoURL, res.RequestedAccent}
		if r := res.Response; r != nil {
			parsed := ""
			if r.RequestedAccentParsed != nil {
				parsed = *r.RequestedAccentParsed
			}
			row = append(row, parsed, r.DetectedAccent, r.Confidence, r.Match, r.MatchType, r.Verdict, "", "")
		} else {
			row = append(row, "", "", "", "", "", "ERROR", res.ErrorKind, res.Error)
		}
		row = append(row, res.DurationMs)
		if err := setRow(f, ResultsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, ins aggregator.Insight, card actionable.ActionCard) error {
	rows := [][]interface{}{
		{"metric", "value"},
		{"total", ins.Total},
		{"passed", ins.Passed},
		{"failed", ins.Failed},
		{"errored", ins.Errored},
		{"pass_rate", ins.PassRate},
		{},
		{"requested", "rows", "fail_rate"},
	}
	for _, k := range sortedKeys(ins.RequestedCounts) {
		rows = append(rows, []interface{}{k, ins.RequestedCounts[k], ins.FailRateByRequested[k]})
	}
	rows = append(rows, []interface{}{}, []interface{}{"match_type", "count"})
	for _, k := range sortedKeys(ins.ReasonCounts) {
		rows = append(rows, []interface{}{k, ins.ReasonCounts[k]})
	}
	if len(ins.ErrorKinds) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"error_kind", "count"})
		for _, k := range sortedKeys(ins.ErrorKinds) {
			rows = append(rows, []interface{}{k, ins.ErrorKinds[k]})
		}
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"insight", card.Insight},
		[]interface{}{"action", card.Action},
		[]interface{}{"impact", card.Impact},
	)
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if err := setRow(f, SummarySheet, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell := "A" + strconv.Itoa(row)
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
