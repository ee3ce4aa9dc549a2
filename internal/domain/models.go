package domain

import (
	"strings"
	"time"
)

// SentimentLabel is the three-way classification of a review.
type SentimentLabel string

const (
	Positive SentimentLabel = "Positive"
	Negative SentimentLabel = "Negative"
	Neutral  SentimentLabel = "Neutral"
	// Unknown is only produced for products whose reviews could not be
	// scored (sentinel scoring disabled).
	Unknown SentimentLabel = "Unknown"
)

// Placeholder values written when a field is missing from the page.
const (
	NotAvailable = "N/A"
	NoRating     = "No rating"
)

// Sentinel texts standing in for reviews.
const (
	NoReviewsFound   = "No reviews found."
	ReviewFetchError = "Error fetching reviews."
)

// ReviewSeparator joins review texts into the single "Reviews" column.
const ReviewSeparator = " | "

// ProductStub is one search result before its reviews are fetched.
type ProductStub struct {
	Name   string `json:"name"`
	Link   string `json:"link"`
	Rating string `json:"rating"`
	Price  string `json:"price"`
}

// NewProductStub returns a stub with every field set to its placeholder.
func NewProductStub() ProductStub {
	return ProductStub{
		Name:   NotAvailable,
		Link:   NotAvailable,
		Rating: NoRating,
		Price:  NotAvailable,
	}
}

// ReviewKind tells how a review fetch ended.
type ReviewKind string

const (
	ReviewsFound ReviewKind = "found"
	ReviewsEmpty ReviewKind = "empty"
	ReviewsError ReviewKind = "error"
)

// ReviewSet is the outcome of fetching one product's reviews.
type ReviewSet struct {
	Kind    ReviewKind
	Reviews []string
	Err     error
}

func FoundReviews(reviews []string) ReviewSet {
	if len(reviews) == 0 {
		return EmptyReviews()
	}
	return ReviewSet{Kind: ReviewsFound, Reviews: reviews}
}

func EmptyReviews() ReviewSet {
	return ReviewSet{Kind: ReviewsEmpty}
}

func FailedReviews(err error) ReviewSet {
	return ReviewSet{Kind: ReviewsError, Err: err}
}

// Texts returns the strings fed to the scorer. It is never empty: sets
// without reviews yield their sentinel text.
func (r ReviewSet) Texts() []string {
	switch r.Kind {
	case ReviewsFound:
		if len(r.Reviews) > 0 {
			return r.Reviews
		}
		return []string{NoReviewsFound}
	case ReviewsEmpty:
		return []string{NoReviewsFound}
	default:
		return []string{ReviewFetchError}
	}
}

// Joined is the display form of the set.
func (r ReviewSet) Joined() string {
	return strings.Join(r.Texts(), ReviewSeparator)
}

// SentimentSummary aggregates the labels of one product's reviews.
type SentimentSummary struct {
	Overall     SentimentLabel `json:"overall_sentiment"`
	PositivePct float64        `json:"positive_pct"`
	NegativePct float64        `json:"negative_pct"`
	NeutralPct  float64        `json:"neutral_pct"`
}

// ProductRow is one line of the final table.
type ProductRow struct {
	ProductStub
	Reviews      string     `json:"reviews"`
	ReviewStatus ReviewKind `json:"review_status"`
	SentimentSummary
}

// Table is the result of one pipeline run.
type Table struct {
	Query      string       `json:"query"`
	Found      int          `json:"found"`
	Rows       []ProductRow `json:"rows"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// StoredRow is a persisted product row as read back from storage.
type StoredRow struct {
	ID        int64      `json:"id"`
	Query     string     `json:"query"`
	Row       ProductRow `json:"row"`
	Timestamp time.Time  `json:"timestamp"`
}
