// Package matcher decides whether a detected accent satisfies a requested one.
package matcher

import (
	"accent-check-go/internal/extractor"
	"accent-check-go/internal/taxonomy"
)

// Reason is the machine-readable explanation attached to a verdict.
type Reason string

const (
	NoRequirementParsed      Reason = "no_requirement_parsed"
	ExactMatch               Reason = "exact_match"
	AmericanInsteadOfBritish Reason = "american_instead_of_british"
	BritishInsteadOfAmerican Reason = "british_instead_of_american"
	IndianInsteadOfBritish   Reason = "indian_instead_of_british"
	Mismatch                 Reason = "mismatch"
)

// GroupMatch is the reason for two distinct labels sharing group g.
func GroupMatch(g taxonomy.Group) Reason {
	return Reason("group_match_" + string(g))
}

// Verdict is the per-request outcome of matching.
type Verdict struct {
	IsMatch      bool
	Reason       Reason
	Detected     taxonomy.Label
	RequestedRaw string
	Requested    extractor.Requirement
}

// Label renders the verdict as PASS or FAIL.
func (v Verdict) Label() string {
	if v.IsMatch {
		return "PASS"
	}
	return "FAIL"
}

// Match applies the tiered policy. The first applicable rule wins. A detected
// label outside the taxonomy never matches a resolved requirement.
func Match(detected taxonomy.Label, req extractor.Requirement) (bool, Reason) {
	if !req.Resolved {
		return true, NoRequirementParsed
	}
	if !detected.Known() {
		return false, Mismatch
	}
	requested := req.Label
	if detected == requested {
		return true, ExactMatch
	}
	if g, ok := taxonomy.SameGroup(detected, requested); ok {
		return true, GroupMatch(g)
	}
	switch {
	case taxonomy.InFamily(requested, taxonomy.BritishFamily) && taxonomy.InFamily(detected, taxonomy.AmericanFamily):
		return false, AmericanInsteadOfBritish
	case taxonomy.InFamily(requested, taxonomy.AmericanFamily) && taxonomy.InFamily(detected, taxonomy.BritishFamily):
		return false, BritishInsteadOfAmerican
	case taxonomy.InFamily(requested, taxonomy.BritishFamily) && detected == taxonomy.India:
		return false, IndianInsteadOfBritish
	}
	return false, Mismatch
}

// Evaluate extracts the requirement from raw and matches detected against it.
func Evaluate(detected taxonomy.Label, raw string) Verdict {
	req := extractor.Extract(raw)
	ok, reason := Match(detected, req)
	return Verdict{
		IsMatch:      ok,
		Reason:       reason,
		Detected:     detected,
		RequestedRaw: raw,
		Requested:    req,
	}
}
