package extractor

import (
	"testing"

	"accent-check-go/internal/taxonomy"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Requirement
	}{
		{"scottish", "scottish accent, warm and friendly", Resolve(taxonomy.Scotland)},
		{"scottish beats uk", "a UK voice, ideally Scottish", Resolve(taxonomy.Scotland)},
		{"glasgow", "someone from Glasgow", Resolve(taxonomy.Scotland)},
		{"irish beats british", "british isles, irish lilt", Resolve(taxonomy.Ireland)},
		{"dublin", "DUBLIN", Resolve(taxonomy.Ireland)},
		{"welsh", "soft welsh", Resolve(taxonomy.Wales)},
		{"cardiff", "cardiff born", Resolve(taxonomy.Wales)},
		{"london", "London posh", Resolve(taxonomy.England)},
		{"uk", "uk", Resolve(taxonomy.England)},
		{"british beats american", "american or british", Resolve(taxonomy.England)},
		{"american", "american accent", Resolve(taxonomy.US)},
		{"usa", "USA newsreader", Resolve(taxonomy.US)},
		{"aussie", "Aussie surfer", Resolve(taxonomy.Australia)},
		{"english beats indian", "Indian English speaker", Resolve(taxonomy.England)},
		{"indian", "indian accent", Resolve(taxonomy.India)},
		{"canadian", "canadian hockey coach", Resolve(taxonomy.Canada)},
		{"nothing", "deep and gravelly", Unresolved},
		{"empty", "", Unresolved},
		{"whitespace", " \t\n ", Unresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.in); got != tt.want {
				t.Fatalf("Extract(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractIsTotal(t *testing.T) {
	inputs := []string{"", "x", "ÜBER", "ß", "🙂 scots 🙂", string([]byte{0xff, 0xfe}), "ukulele"}
	for _, in := range inputs {
		got := Extract(in)
		if got.Resolved && !got.Label.Known() {
			t.Fatalf("Extract(%q) resolved to unknown label %q", in, got.Label)
		}
	}
}

func TestRulesPrecedence(t *testing.T) {
	want := []taxonomy.Label{
		taxonomy.Scotland, taxonomy.Ireland, taxonomy.Wales, taxonomy.England,
		taxonomy.US, taxonomy.Australia, taxonomy.India, taxonomy.Canada,
	}
	got := Rules()
	if len(got) != len(want) {
		t.Fatalf("got %d rules, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Label != want[i] {
			t.Errorf("rule %d = %q, want %q", i, got[i].Label, want[i])
		}
	}
	got[0].Keywords[0] = "mutated"
	if Rules()[0].Keywords[0] != "scottish" {
		t.Fatal("Rules must return a copy")
	}
}

func TestRequirementPtr(t *testing.T) {
	if Unresolved.Ptr() != nil {
		t.Fatal("unresolved must encode as nil")
	}
	p := Resolve(taxonomy.US).Ptr()
	if p == nil || *p != "us" {
		t.Fatalf("got %v", p)
	}
	if Unresolved.String() != "unresolved" {
		t.Fatalf("got %q", Unresolved.String())
	}
}
