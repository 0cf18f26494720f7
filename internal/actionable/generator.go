// Package actionable turns an aggregate insight into a single recommendation.
package actionable

import (
	"fmt"
	"sort"

	"accent-check-go/internal/aggregator"
	"accent-check-go/internal/matcher"
)

// Threshold is the failure rate at which a card recommends action.
const Threshold = 0.35

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

var actions = map[string]string{
	string(matcher.AmericanInsteadOfBritish): "Re-cast with UK-based talent; current takes read as North American",
	string(matcher.BritishInsteadOfAmerican): "Re-cast with US/Canadian talent; current takes read as British",
	string(matcher.IndianInsteadOfBritish):   "Brief talent on the requested British accent or re-cast",
	string(matcher.Mismatch):                 "Review the casting brief against the submitted takes",
}

func Generate(ins aggregator.Insight) ActionCard {
	if ins.Total > 0 {
		if rate := float64(ins.Errored) / float64(ins.Total); rate >= Threshold {
			return ActionCard{
				Insight: fmt.Sprintf("High processing failure rate (%.0f%%)", rate*100),
				Action:  "Check media URLs and transcoder/classifier availability before re-running",
				Impact:  "Verdicts are incomplete until failed rows are re-processed",
			}
		}
	}

	worst := ""
	highest := 0.0
	keys := make([]string, 0, len(ins.FailRateByRequested))
	for k := range ins.FailRateByRequested {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := ins.FailRateByRequested[k]; v > highest {
			highest = v
			worst = k
		}
	}
	if highest >= Threshold && worst != "" {
		action, ok := actions[dominantFailure(ins.ReasonsByRequested[worst])]
		if !ok {
			action = actions[string(matcher.Mismatch)]
		}
		return ActionCard{
			Insight: fmt.Sprintf("Requested %s accent fails in %.0f%% of takes", worst, highest*100),
			Action:  action,
			Impact:  "Fewer rejected deliveries and re-records",
		}
	}
	return ActionCard{
		Insight: "No strong mismatch pattern detected",
		Action:  "Keep sampling new takes",
		Impact:  "Low immediate intervention",
	}
}

// dominantFailure returns the most frequent failing reason, ties broken by name.
func dominantFailure(counts map[string]int) string {
	best, n := "", 0
	keys := make([]string, 0, len(actions))
	for k := range actions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > n {
			best, n = k, counts[k]
		}
	}
	return best
}
