// Package extractor infers the requested accent from a free-text voice
// description.
package extractor

import (
	"strings"

	"golang.org/x/text/cases"

	"accent-check-go/internal/taxonomy"
)

// Requirement is the outcome of extraction: a resolved label, or nothing.
type Requirement struct {
	Label    taxonomy.Label
	Resolved bool
}

// Unresolved is the requirement returned when no rule fires.
var Unresolved = Requirement{}

// Resolve builds a resolved requirement for l.
func Resolve(l taxonomy.Label) Requirement {
	return Requirement{Label: l, Resolved: true}
}

// Ptr returns the label as a string pointer, nil when unresolved. Used for
// JSON null encoding.
func (r Requirement) Ptr() *string {
	if !r.Resolved {
		return nil
	}
	s := string(r.Label)
	return &s
}

func (r Requirement) String() string {
	if !r.Resolved {
		return "unresolved"
	}
	return string(r.Label)
}

// Rule maps a keyword set to a label. A rule fires when any keyword is a
// substring of the folded text.
type Rule struct {
	Label    taxonomy.Label
	Keywords []string
}

// rules are evaluated in order; regional cues come before generic UK/US cues.
var rules = []Rule{
	{Label: taxonomy.Scotland, Keywords: []string{"scottish", "scots", "glasgow", "edinburgh"}},
	{Label: taxonomy.Ireland, Keywords: []string{"irish", "dublin", "cork"}},
	{Label: taxonomy.Wales, Keywords: []string{"welsh", "cardiff"}},
	{Label: taxonomy.England, Keywords: []string{"british", "english", "london", "uk accent", "uk"}},
	{Label: taxonomy.US, Keywords: []string{"american", "us accent", "usa"}},
	{Label: taxonomy.Australia, Keywords: []string{"australian", "aussie"}},
	{Label: taxonomy.India, Keywords: []string{"indian"}},
	{Label: taxonomy.Canada, Keywords: []string{"canadian"}},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Label: r.Label, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Extract returns the label of the first rule whose keywords appear in text.
// It never fails; empty text is unresolved.
func Extract(text string) Requirement {
	if strings.TrimSpace(text) == "" {
		return Unresolved
	}
	// cases.Caser is stateful, so each call gets its own.
	folded := cases.Fold().String(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(folded, kw) {
				return Resolve(r.Label)
			}
		}
	}
	return Unresolved
}
