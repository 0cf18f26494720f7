// Package classifier adapts accent classification backends to a ranked label
// distribution. The backend is opaque: it receives a normalized WAV file and
// returns labels with probabilities.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"accent-check-go/internal/taxonomy"
)

var (
	// ErrNoLabels is returned when a backend reports an empty distribution.
	ErrNoLabels = errors.New("classifier returned no labels")
	// ErrMalformed is returned for inconsistent backend output.
	ErrMalformed = errors.New("malformed classifier output")
)

// Classifier is a loaded, read-only classification handle, safe for
// concurrent use.
type Classifier interface {
	Classify(ctx context.Context, audioPath string) (Classification, error)
	ModelID() string
}

// LabelScore is one entry of a ranked distribution.
type LabelScore struct {
	Label taxonomy.Label
	Prob  float64
}

// Classification is a non-empty distribution ranked by probability.
type Classification struct {
	Ranked     []LabelScore
	Confidence float64
}

// Detected is the top-ranked label.
func (c Classification) Detected() taxonomy.Label {
	if len(c.Ranked) == 0 {
		return ""
	}
	return c.Ranked[0].Label
}

// Top returns at most n entries.
func (c Classification) Top(n int) []LabelScore {
	if n > len(c.Ranked) {
		n = len(c.Ranked)
	}
	if n < 0 {
		n = 0
	}
	out := make([]LabelScore, n)
	copy(out, c.Ranked[:n])
	return out
}

// FromDistribution validates raw backend output and ranks it. score, when
// present and within [0,1], becomes the confidence; otherwise the top
// probability is used. Labels are lowercased but not checked against the
// taxonomy here.
func FromDistribution(labels []string, probs []float64, score *float64) (Classification, error) {
	if len(labels) == 0 {
		return Classification{}, ErrNoLabels
	}
	if len(labels) != len(probs) {
		return Classification{}, fmt.Errorf("%w: %d labels, %d probabilities", ErrMalformed, len(labels), len(probs))
	}
	ranked := make([]LabelScore, len(labels))
	for i, raw := range labels {
		p := probs[i]
		if math.IsNaN(p) || p < 0 || p > 1 {
			return Classification{}, fmt.Errorf("%w: probability %v for %q", ErrMalformed, p, raw)
		}
		l, _ := taxonomy.Parse(raw)
		if l == "" {
			return Classification{}, fmt.Errorf("%w: empty label at %d", ErrMalformed, i)
		}
		ranked[i] = LabelScore{Label: l, Prob: p}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Prob > ranked[j].Prob })

	confidence := ranked[0].Prob
	if score != nil && !math.IsNaN(*score) && *score >= 0 && *score <= 1 {
		confidence = *score
	}
	return Classification{Ranked: ranked, Confidence: confidence}, nil
}
