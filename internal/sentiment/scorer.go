package sentiment

import "github.com/user/review-sentiment/internal/domain"

// Classification thresholds on the compound score.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// PolarityScorer yields a compound score in [-1, 1] for a text.
type PolarityScorer interface {
	Compound(text string) float64
}

// Scorer maps review text to a three-way label.
type Scorer struct {
	polarity PolarityScorer
}

// NewScorer wraps p, falling back to VADER when p is nil.
func NewScorer(p PolarityScorer) *Scorer {
	if p == nil {
		p = NewVADER()
	}
	return &Scorer{polarity: p}
}

func (s *Scorer) Label(text string) domain.SentimentLabel {
	return Classify(s.polarity.Compound(text))
}

// Classify applies the thresholds: >= 0.05 is Positive, <= -0.05 is
// Negative, anything between is Neutral.
func Classify(compound float64) domain.SentimentLabel {
	switch {
	case compound >= PositiveThreshold:
		return domain.Positive
	case compound <= NegativeThreshold:
		return domain.Negative
	default:
		return domain.Neutral
	}
}
