package extractor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/review-sentiment/internal/domain"
)

// ErrEmptyResults is returned when the search page holds no result
// containers.
var ErrEmptyResults = errors.New("no products found")

// Extractor parses rendered search and product pages.
type Extractor struct {
	strategy    Strategy
	base        *url.URL
	maxProducts int
	maxReviews  int
}

// New builds an Extractor. A nil strategy selects AmazonStrategy.
func New(strategy Strategy, baseURL string, maxProducts, maxReviews int) (*Extractor, error) {
	if strategy == nil {
		strategy = AmazonStrategy{}
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", baseURL)
	}
	if maxProducts <= 0 || maxReviews <= 0 {
		return nil, fmt.Errorf("limits must be positive (products=%d, reviews=%d)", maxProducts, maxReviews)
	}
	return &Extractor{
		strategy:    strategy,
		base:        base,
		maxProducts: maxProducts,
		maxReviews:  maxReviews,
	}, nil
}

func (e *Extractor) ResultSelector() string { return e.strategy.ResultSelector() }

func (e *Extractor) ReviewSelector() string { return e.strategy.ReviewSelector() }

// Products returns at most maxProducts stubs in document order, together
// with the number of containers found before capping. Missing fields fall
// back to placeholders and never abort extraction.
func (e *Extractor) Products(html string) ([]domain.ProductStub, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse search page: %w", err)
	}

	items := doc.Find(e.strategy.ResultSelector())
	found := items.Length()
	if found == 0 {
		return nil, 0, ErrEmptyResults
	}

	limit := min(found, e.maxProducts)
	stubs := make([]domain.ProductStub, 0, limit)
	items.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		stubs = append(stubs, domain.ProductStub{
			Name:   e.strategy.Name(s),
			Link:   e.strategy.Link(s, e.base),
			Rating: e.strategy.Rating(s),
			Price:  e.strategy.Price(s),
		})
		return true
	})
	return stubs, found, nil
}

// Reviews returns the trimmed text of the first maxReviews review bodies.
// An empty result is not an error.
func (e *Extractor) Reviews(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse product page: %w", err)
	}

	var reviews []string
	doc.Find(e.strategy.ReviewSelector()).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= e.maxReviews {
			return false
		}
		reviews = append(reviews, strings.TrimSpace(s.Text()))
		return true
	})
	return reviews, nil
}
