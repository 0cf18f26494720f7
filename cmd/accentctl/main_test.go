package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"accent-check-go/internal/actionable"
	"accent-check-go/internal/aggregator"
	"accent-check-go/internal/processor"
	"accent-check-go/internal/types"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLabelsTable(t *testing.T) {
	out, _, err := runCLI(t, "labels")
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	for _, want := range []string{"southatlandtic", "british-family", "american"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLabelsJSON(t *testing.T) {
	out, _, err := runCLI(t, "labels", "--json")
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	var views []labelView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 16 || views[0].Label != "africa" || views[0].Group != "" {
		t.Fatalf("views = %+v", views)
	}
}

func TestMatch(t *testing.T) {
	out, _, err := runCLI(t, "match", "--json", "England", "american", "accent")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var v matchView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Detected != "england" || v.Raw != "american accent" || v.Parsed == nil || *v.Parsed != "us" {
		t.Fatalf("view = %+v", v)
	}
	if v.Match || v.MatchType != "british_instead_of_american" || v.Verdict != "FAIL" {
		t.Fatalf("view = %+v", v)
	}

	out, _, err = runCLI(t, "match", "india")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !strings.Contains(out, "no_requirement_parsed") || !strings.Contains(out, "PASS") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestMatchRequiresLabel(t *testing.T) {
	if _, _, err := runCLI(t, "match"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("unknown_key = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "--config", path, "classify", "https://x/v.mp4"); err == nil {
		t.Fatal("expected config error")
	}
	// commands that skip config still work
	if _, _, err := runCLI(t, "--config", path, "labels"); err != nil {
		t.Fatalf("labels with bad config: %v", err)
	}
}

func TestBatchMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accent.toml")
	if err := os.WriteFile(path, []byte("[classifier]\nbackend = \"static\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, "--config", path, "batch", filepath.Join(t.TempDir(), "missing.xlsx"))
	if err == nil || !strings.Contains(err.Error(), "missing.xlsx") {
		t.Fatalf("err = %v", err)
	}
}

func TestRenderBatchPlain(t *testing.T) {
	us := "us"
	rep := processor.Report{
		Results: []types.BatchResult{
			{BatchRecord: types.BatchRecord{Row: 2, RequestedAccent: "american"},
				Response: &types.ClassifyResponse{RequestedAccentParsed: &us, DetectedAccent: "england",
					MatchType: "british_instead_of_american", Verdict: "FAIL"}},
			{BatchRecord: types.BatchRecord{Row: 3}, ErrorKind: "fetch_failed"},
		},
		ActionCard: actionable.ActionCard{Insight: "insight line", Action: "action line"},
	}
	rep.Insight = aggregator.Aggregate(rep.Results)

	out := renderBatch(view{}, rep)
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain view should not emit escapes:\n%s", out)
	}
	for _, want := range []string{"british_instead_of_american", "fetch_failed", "ERROR", "0 PASS / 1 FAIL / 1 ERROR", "insight line\naction line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestViewVerdictColors(t *testing.T) {
	if got := (view{color: true}).verdict("PASS"); !strings.Contains(got, "\x1b[") || !strings.Contains(got, "PASS") {
		t.Fatalf("colored verdict = %q", got)
	}
	if got := (view{}).verdict("PASS"); got != "PASS" {
		t.Fatalf("plain verdict = %q", got)
	}
}
