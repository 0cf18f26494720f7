// Package dataset reads batch evaluation sheets and writes verdict reports.
package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"accent-check-go/internal/types"
)

// Load reads the first sheet of an xlsx workbook. The media URL and requested
// accent columns are auto-detected by header heuristics; rows whose URL is not
// http(s) or s3 are skipped.
func Load(path string) ([]types.BatchRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	urlIdx, accentIdx := detectColumns(rows[0])
	var out []types.BatchRecord
	for i, r := range rows {
		if i == 0 {
			continue
		}
		rec := types.BatchRecord{Row: i + 1}
		if urlIdx < len(r) {
			rec.VideoURL = strings.TrimSpace(r[urlIdx])
		}
		if accentIdx >= 0 && accentIdx < len(r) {
			rec.RequestedAccent = strings.TrimSpace(r[accentIdx])
		}
		if !supportedURL(rec.VideoURL) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// detectColumns returns the URL column and the requested accent column (-1 if
// absent). Without a recognizable URL header the first column is used.
func detectColumns(header []string) (urlIdx, accentIdx int) {
	urlIdx, accentIdx = -1, -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "url") || strings.Contains(l, "link") || strings.Contains(l, "video") || strings.Contains(l, "media"):
			if urlIdx == -1 {
				urlIdx = i
			}
		case strings.Contains(l, "accent") || strings.Contains(l, "requested") || strings.Contains(l, "voice") || strings.Contains(l, "description"):
			if accentIdx == -1 {
				accentIdx = i
			}
		}
	}
	// fallback: first column is the URL, the next one the description
	if urlIdx == -1 {
		urlIdx = 0
		if accentIdx == -1 && len(header) > 1 {
			accentIdx = 1
		}
	}
	return urlIdx, accentIdx
}

func supportedURL(u string) bool {
	l := strings.ToLower(u)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") || strings.HasPrefix(l, "s3://")
}
