package sentiment

import (
	"math"

	"github.com/user/review-sentiment/internal/domain"
)

// Summarize turns review labels into percentages (2 decimals) and an
// overall label. A label wins only with a strict majority of counts; ties
// fall back to Neutral. No labels yields Unknown with zero percentages.
func Summarize(labels []domain.SentimentLabel) domain.SentimentSummary {
	total := len(labels)
	if total == 0 {
		return domain.SentimentSummary{Overall: domain.Unknown}
	}

	var pos, neg, neu int
	for _, l := range labels {
		switch l {
		case domain.Positive:
			pos++
		case domain.Negative:
			neg++
		case domain.Neutral:
			neu++
		}
	}

	overall := domain.Neutral
	switch {
	case pos > neg && pos > neu:
		overall = domain.Positive
	case neg > pos && neg > neu:
		overall = domain.Negative
	}

	return domain.SentimentSummary{
		Overall:     overall,
		PositivePct: percent(pos, total),
		NegativePct: percent(neg, total),
		NeutralPct:  percent(neu, total),
	}
}

func percent(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*100*100) / 100
}
