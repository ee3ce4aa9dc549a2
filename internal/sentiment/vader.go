package sentiment

import (
	"math"

	"github.com/jonreiter/govader"
)

// Scores is the polarity breakdown of one text. Negative, Neutral and
// Positive are proportions summing to about 1; Compound is the normalised
// overall valence in [-1, 1].
type Scores struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// VADER scores text with the reference VADER lexicon and rule set. Scores
// are rounded like the reference implementation: compound to 4 places,
// proportions to 3. It is safe for concurrent use.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound implements PolarityScorer.
func (v *VADER) Compound(text string) float64 {
	return v.PolarityScores(text).Compound
}

func (v *VADER) PolarityScores(text string) Scores {
	s := v.analyzer.PolarityScores(text)
	return Scores{
		Negative: round(s.Negative, 3),
		Neutral:  round(s.Neutral, 3),
		Positive: round(s.Positive, 3),
		Compound: round(s.Compound, 4),
	}
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
