package pipeline

import (
	"math"

	"accent-check-go/internal/classifier"
	"accent-check-go/internal/matcher"
	"accent-check-go/internal/types"
)

// TopN is how many ranked labels the response reports.
const TopN = 3

// BuildResponse assembles the success payload.
func BuildResponse(c classifier.Classification, v matcher.Verdict) types.ClassifyResponse {
	top := c.Top(TopN)
	probs := make([]types.AccentProb, 0, len(top))
	for _, ls := range top {
		probs = append(probs, types.AccentProb{Accent: string(ls.Label), Prob: round3(ls.Prob)})
	}
	return types.ClassifyResponse{
		DetectedAccent:        string(v.Detected),
		Confidence:            round3(c.Confidence),
		Top3:                  probs,
		RequestedAccentRaw:    v.RequestedRaw,
		RequestedAccentParsed: v.Requested.Ptr(),
		Match:                 v.IsMatch,
		MatchType:             string(v.Reason),
		Verdict:               v.Label(),
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
