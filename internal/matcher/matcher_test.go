package matcher

import (
	"testing"

	"accent-check-go/internal/extractor"
	"accent-check-go/internal/taxonomy"
)

// expected is an independent restatement of the policy used to check every
// label pair.
func expected(detected, requested taxonomy.Label) (bool, Reason) {
	british := map[taxonomy.Label]bool{taxonomy.England: true, taxonomy.Scotland: true, taxonomy.Wales: true, taxonomy.Ireland: true}
	american := map[taxonomy.Label]bool{taxonomy.US: true, taxonomy.Canada: true}
	switch {
	case detected == requested:
		return true, ExactMatch
	case british[detected] && british[requested]:
		return true, "group_match_british"
	case american[detected] && american[requested]:
		return true, "group_match_american"
	case british[requested] && american[detected]:
		return false, AmericanInsteadOfBritish
	case american[requested] && british[detected]:
		return false, BritishInsteadOfAmerican
	case british[requested] && detected == taxonomy.India:
		return false, IndianInsteadOfBritish
	}
	return false, Mismatch
}

func TestMatchAllPairs(t *testing.T) {
	for _, requested := range taxonomy.All() {
		for _, detected := range taxonomy.All() {
			gotOK, gotReason := Match(detected, extractor.Resolve(requested))
			wantOK, wantReason := expected(detected, requested)
			if gotOK != wantOK || gotReason != wantReason {
				t.Errorf("Match(%s, %s) = %v/%s, want %v/%s", detected, requested, gotOK, gotReason, wantOK, wantReason)
			}
		}
	}
}

func TestMatchUnresolvedAlwaysPasses(t *testing.T) {
	labels := append(taxonomy.All(), taxonomy.Label("unknown"), taxonomy.Label(""))
	for _, detected := range labels {
		ok, reason := Match(detected, extractor.Unresolved)
		if !ok || reason != NoRequirementParsed {
			t.Errorf("Match(%q, unresolved) = %v/%s", detected, ok, reason)
		}
	}
}

func TestMatchFailsClosedOnUnknownLabel(t *testing.T) {
	for _, requested := range taxonomy.All() {
		ok, reason := Match(taxonomy.Label("martian"), extractor.Resolve(requested))
		if ok || reason != Mismatch {
			t.Errorf("unknown detected vs %s = %v/%s, want false/mismatch", requested, ok, reason)
		}
	}
}

func TestMatchSpotChecks(t *testing.T) {
	tests := []struct {
		detected, requested taxonomy.Label
		ok                  bool
		reason              Reason
	}{
		{taxonomy.Scotland, taxonomy.Scotland, true, ExactMatch},
		{taxonomy.England, taxonomy.Scotland, true, GroupMatch(taxonomy.British)},
		{taxonomy.Canada, taxonomy.US, true, GroupMatch(taxonomy.American)},
		{taxonomy.US, taxonomy.England, false, AmericanInsteadOfBritish},
		{taxonomy.England, taxonomy.US, false, BritishInsteadOfAmerican},
		{taxonomy.India, taxonomy.Wales, false, IndianInsteadOfBritish},
		// No dedicated tier: these fall through to the generic reason.
		{taxonomy.India, taxonomy.US, false, Mismatch},
		{taxonomy.England, taxonomy.India, false, Mismatch},
		{taxonomy.Australia, taxonomy.England, false, Mismatch},
	}
	for _, tt := range tests {
		ok, reason := Match(tt.detected, extractor.Resolve(tt.requested))
		if ok != tt.ok || reason != tt.reason {
			t.Errorf("Match(%s, %s) = %v/%s, want %v/%s", tt.detected, tt.requested, ok, reason, tt.ok, tt.reason)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		detected taxonomy.Label
		raw      string
		parsed   extractor.Requirement
		reason   Reason
		verdict  string
	}{
		{"scottish exact", taxonomy.Scotland, "scottish accent, warm and friendly", extractor.Resolve(taxonomy.Scotland), ExactMatch, "PASS"},
		{"american vs england", taxonomy.England, "american accent", extractor.Resolve(taxonomy.US), BritishInsteadOfAmerican, "FAIL"},
		{"empty request", taxonomy.India, "", extractor.Unresolved, NoRequirementParsed, "PASS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.detected, tt.raw)
			if v.Requested != tt.parsed || v.Reason != tt.reason || v.Label() != tt.verdict {
				t.Fatalf("got %+v (%s)", v, v.Label())
			}
			if v.RequestedRaw != tt.raw || v.Detected != tt.detected {
				t.Fatalf("verdict lost inputs: %+v", v)
			}
		})
	}
}
