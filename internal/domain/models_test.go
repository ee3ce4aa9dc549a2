package domain

import (
	"errors"
	"testing"
)

func TestReviewSetTexts(t *testing.T) {
	tests := []struct {
		name   string
		set    ReviewSet
		want   []string
		joined string
	}{
		{
			name:   "found",
			set:    FoundReviews([]string{"Great product", "Bad battery"}),
			want:   []string{"Great product", "Bad battery"},
			joined: "Great product | Bad battery",
		},
		{
			name:   "empty",
			set:    EmptyReviews(),
			want:   []string{NoReviewsFound},
			joined: NoReviewsFound,
		},
		{
			name:   "found with no reviews collapses to empty",
			set:    FoundReviews(nil),
			want:   []string{NoReviewsFound},
			joined: NoReviewsFound,
		},
		{
			name:   "error",
			set:    FailedReviews(errors.New("timeout")),
			want:   []string{ReviewFetchError},
			joined: ReviewFetchError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set.Texts()
			if len(got) != len(tt.want) {
				t.Fatalf("Texts() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Texts()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if j := tt.set.Joined(); j != tt.joined {
				t.Errorf("Joined() = %q, want %q", j, tt.joined)
			}
		})
	}
}

func TestFoundReviewsKind(t *testing.T) {
	if k := FoundReviews(nil).Kind; k != ReviewsEmpty {
		t.Fatalf("kind = %q, want %q", k, ReviewsEmpty)
	}
	if k := FoundReviews([]string{""}).Kind; k != ReviewsFound {
		t.Fatalf("kind = %q, want %q", k, ReviewsFound)
	}
}

func TestNewProductStubDefaults(t *testing.T) {
	s := NewProductStub()
	if s.Name != "N/A" || s.Link != "N/A" || s.Price != "N/A" || s.Rating != "No rating" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}
