package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/pkg/utils"
)

// Strategy describes the markup of one retail site. Field methods receive
// a single result container and return the placeholder value when the
// field is missing.
type Strategy interface {
	// ResultSelector locates result containers on the search page.
	ResultSelector() string
	// ReviewSelector locates review bodies on a product page.
	ReviewSelector() string

	Name(item *goquery.Selection) string
	Link(item *goquery.Selection, base *url.URL) string
	Rating(item *goquery.Selection) string
	Price(item *goquery.Selection) string
}

// AmazonStrategy matches the Amazon search and product page markup.
type AmazonStrategy struct{}

func (AmazonStrategy) ResultSelector() string {
	return "div[data-component-type='s-search-result']"
}

func (AmazonStrategy) ReviewSelector() string {
	return "span[data-hook='review-body']"
}

func (AmazonStrategy) Name(item *goquery.Selection) string {
	h2 := item.Find("h2").First()
	if h2.Length() == 0 {
		return domain.NotAvailable
	}
	return strings.TrimSpace(h2.Text())
}

func (AmazonStrategy) Link(item *goquery.Selection, base *url.URL) string {
	href, ok := item.Find("a.a-link-normal.s-no-outline").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return domain.NotAvailable
	}
	abs, err := utils.ToAbsoluteURL(base, strings.TrimSpace(href))
	if err != nil {
		return domain.NotAvailable
	}
	return abs
}

func (AmazonStrategy) Rating(item *goquery.Selection) string {
	return firstText(item, "span.a-icon-alt", domain.NoRating)
}

func (AmazonStrategy) Price(item *goquery.Selection) string {
	return firstText(item, "span.a-price-whole", domain.NotAvailable)
}

func firstText(item *goquery.Selection, selector, fallback string) string {
	sel := item.Find(selector).First()
	if sel.Length() == 0 {
		return fallback
	}
	return strings.TrimSpace(sel.Text())
}
