package extractor

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/user/review-sentiment/internal/domain"
)

const fullResult = `
<div data-component-type="s-search-result">
  <h2><span> Acer Aspire 7 Gaming Laptop </span></h2>
  <a class="a-link-normal s-no-outline" href="/Acer-Aspire/dp/B0C1/ref=sr_1_1">img</a>
  <span class="a-icon-alt">4.2 out of 5 stars</span>
  <span class="a-price"><span class="a-price-whole">52,990</span></span>
</div>`

const bareResult = `<div data-component-type="s-search-result"><p>sponsored</p></div>`

func searchPage(results ...string) string {
	return "<html><body><div class=\"s-main-slot\">" + strings.Join(results, "\n") + "</div></body></html>"
}

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(nil, "https://www.amazon.in", 20, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestProductsFullFields(t *testing.T) {
	stubs, found, err := newExtractor(t).Products(searchPage(fullResult))
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if found != 1 || len(stubs) != 1 {
		t.Fatalf("found=%d stubs=%d, want 1/1", found, len(stubs))
	}
	want := domain.ProductStub{
		Name:   "Acer Aspire 7 Gaming Laptop",
		Link:   "https://www.amazon.in/Acer-Aspire/dp/B0C1/ref=sr_1_1",
		Rating: "4.2 out of 5 stars",
		Price:  "52,990",
	}
	if stubs[0] != want {
		t.Fatalf("stub = %+v, want %+v", stubs[0], want)
	}
}

func TestProductsMissingFieldsDefault(t *testing.T) {
	stubs, _, err := newExtractor(t).Products(searchPage(bareResult, fullResult))
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(stubs) != 2 {
		t.Fatalf("stubs = %d, want 2", len(stubs))
	}
	if stubs[0] != domain.NewProductStub() {
		t.Fatalf("bare stub = %+v, want placeholders", stubs[0])
	}
	if stubs[1].Name != "Acer Aspire 7 Gaming Laptop" {
		t.Fatalf("order not preserved: %+v", stubs)
	}
}

func TestProductsCapped(t *testing.T) {
	var results []string
	for i := 0; i < 25; i++ {
		results = append(results, fmt.Sprintf(
			`<div data-component-type="s-search-result"><h2>Item %d</h2></div>`, i))
	}

	stubs, found, err := newExtractor(t).Products(searchPage(results...))
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if found != 25 {
		t.Errorf("found = %d, want 25", found)
	}
	if len(stubs) != 20 {
		t.Fatalf("stubs = %d, want 20", len(stubs))
	}
	if stubs[0].Name != "Item 0" || stubs[19].Name != "Item 19" {
		t.Errorf("unexpected order: first=%q last=%q", stubs[0].Name, stubs[19].Name)
	}
}

func TestProductsEmpty(t *testing.T) {
	_, _, err := newExtractor(t).Products(searchPage())
	if !errors.Is(err, ErrEmptyResults) {
		t.Fatalf("err = %v, want ErrEmptyResults", err)
	}
}

func TestReviews(t *testing.T) {
	page := `<html><body>
<span data-hook="review-body"><span>  Battery lasts all day. </span></span>
<span data-hook="review-body">Screen is dim</span>
<span data-hook="review-body">   </span>
<span data-hook="review-body">Fourth review is ignored</span>
</body></html>`

	reviews, err := newExtractor(t).Reviews(page)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	want := []string{"Battery lasts all day.", "Screen is dim", ""}
	if len(reviews) != len(want) {
		t.Fatalf("reviews = %q, want %q", reviews, want)
	}
	for i := range want {
		if reviews[i] != want[i] {
			t.Errorf("review %d = %q, want %q", i, reviews[i], want[i])
		}
	}
}

func TestReviewsNone(t *testing.T) {
	reviews, err := newExtractor(t).Reviews("<html><body><p>No customer reviews</p></body></html>")
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("reviews = %q, want none", reviews)
	}
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		products int
		reviews  int
	}{
		{"no scheme", "www.amazon.in", 20, 3},
		{"zero products", "https://www.amazon.in", 0, 3},
		{"zero reviews", "https://www.amazon.in", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(nil, tt.base, tt.products, tt.reviews); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
