package sentiment

import (
	"math"
	"testing"

	"github.com/user/review-sentiment/internal/domain"
)

func TestVADERPolarityScores(t *testing.T) {
	v := NewVADER()

	got := v.PolarityScores("The product is good.")
	if got.Compound != 0.4404 {
		t.Fatalf("compound = %v, want 0.4404", got.Compound)
	}
	if sum := got.Positive + got.Negative + got.Neutral; math.Abs(sum-1) > 0.01 {
		t.Fatalf("proportions sum to %v", sum)
	}
	if got.Negative != 0 {
		t.Fatalf("neg = %v, want 0", got.Negative)
	}
}

func TestVADERCompoundRounded(t *testing.T) {
	v := NewVADER()
	for _, text := range []string{
		"Error fetching reviews.",
		"Battery life is AMAZING!!! but the fan is loud",
		"Not bad at all",
	} {
		c := v.Compound(text)
		if c != math.Round(c*1e4)/1e4 {
			t.Errorf("Compound(%q) = %v, not rounded to 4 places", text, c)
		}
		if c < -1 || c > 1 {
			t.Errorf("Compound(%q) = %v, out of range", text, c)
		}
	}
}

func TestVADEREmptyText(t *testing.T) {
	got := NewVADER().PolarityScores("")
	if got.Compound != 0 || got.Positive != 0 || got.Negative != 0 {
		t.Fatalf("PolarityScores(\"\") = %+v, want no polarity", got)
	}
	if NewScorer(nil).Label("") != domain.Neutral {
		t.Fatal("empty review should be Neutral")
	}
}
