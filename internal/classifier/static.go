package classifier

import (
	"context"
	"fmt"

	"accent-check-go/internal/taxonomy"
)

// Static always returns the same distribution. It backs local development
// and tests.
type Static struct {
	model  string
	result Classification
}

// NewStatic builds a Static classifier whose distribution puts prob on
// detected and spreads the remainder evenly over the other taxonomy labels.
func NewStatic(model string, detected taxonomy.Label, prob float64) (*Static, error) {
	all := taxonomy.All()
	labels := make([]string, 0, len(all))
	probs := make([]float64, 0, len(all))
	labels = append(labels, string(detected))
	probs = append(probs, prob)
	rest := (1 - prob) / float64(len(all)-1)
	for _, l := range all {
		if l == detected {
			continue
		}
		labels = append(labels, string(l))
		probs = append(probs, rest)
	}
	c, err := FromDistribution(labels, probs, nil)
	if err != nil {
		return nil, fmt.Errorf("static classifier: %w", err)
	}
	return &Static{model: model, result: c}, nil
}

func (s *Static) Classify(ctx context.Context, audioPath string) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{}, err
	}
	return Classification{Ranked: s.result.Top(len(s.result.Ranked)), Confidence: s.result.Confidence}, nil
}

func (s *Static) ModelID() string { return s.model }
