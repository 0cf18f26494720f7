// Package aggregator summarizes batch verdicts.
package aggregator

import "accent-check-go/internal/types"

// Unparsed keys rows whose description named no accent.
const Unparsed = "unparsed"

type Insight struct {
	Total               int                `json:"total"`
	Passed              int                `json:"passed"`
	Failed              int                `json:"failed"`
	Errored             int                `json:"errored"`
	PassRate            float64            `json:"pass_rate"`
	RequestedCounts     map[string]int     `json:"requested_counts"`
	FailRateByRequested map[string]float64 `json:"fail_rate_by_requested"`
	ReasonCounts        map[string]int     `json:"reason_counts"`
	// ReasonsByRequested counts match types per requested accent.
	ReasonsByRequested map[string]map[string]int `json:"reasons_by_requested"`
	ErrorKinds         map[string]int            `json:"error_kinds"`
}

// Aggregate computes pass rates over completed rows; errored rows only count
// toward Total and ErrorKinds.
func Aggregate(results []types.BatchResult) Insight {
	ins := Insight{
		Total:               len(results),
		RequestedCounts:     map[string]int{},
		FailRateByRequested: map[string]float64{},
		ReasonCounts:        map[string]int{},
		ReasonsByRequested:  map[string]map[string]int{},
		ErrorKinds:          map[string]int{},
	}
	failed := map[string]int{}
	for _, r := range results {
		if r.Response == nil {
			ins.Errored++
			kind := r.ErrorKind
			if kind == "" {
				kind = "unknown"
			}
			ins.ErrorKinds[kind]++
			continue
		}
		key := Unparsed
		if p := r.Response.RequestedAccentParsed; p != nil {
			key = *p
		}
		ins.RequestedCounts[key]++
		ins.ReasonCounts[r.Response.MatchType]++
		if ins.ReasonsByRequested[key] == nil {
			ins.ReasonsByRequested[key] = map[string]int{}
		}
		ins.ReasonsByRequested[key][r.Response.MatchType]++
		if r.Response.Match {
			ins.Passed++
		} else {
			ins.Failed++
			failed[key]++
		}
	}
	for k, n := range ins.RequestedCounts {
		ins.FailRateByRequested[k] = float64(failed[k]) / float64(n)
	}
	if done := ins.Passed + ins.Failed; done > 0 {
		ins.PassRate = float64(ins.Passed) / float64(done)
	}
	return ins
}
