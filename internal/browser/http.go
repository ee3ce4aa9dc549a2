package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// HTTPRenderer fetches pages without running JavaScript. The wait
// degenerates to checking that waitSelector is present in the response.
type HTTPRenderer struct {
	collector *colly.Collector
	logger    *zap.Logger
}

// NewHTTPRenderer builds a colly-backed renderer. transport replaces the
// default HTTP transport when non-nil.
func NewHTTPRenderer(opts Options, transport http.RoundTripper, logger *zap.Logger) (*HTTPRenderer, error) {
	c := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(opts.WaitTimeout)

	if opts.ProxyServer != "" {
		if err := c.SetProxy(opts.ProxyServer); err != nil {
			return nil, fmt.Errorf("set proxy: %w", err)
		}
	}
	if transport != nil {
		c.WithTransport(transport)
	}

	return &HTTPRenderer{collector: c, logger: logger}, nil
}

func (r *HTTPRenderer) Render(ctx context.Context, url, waitSelector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := r.collector.Clone()
	var body []byte
	var fetchErr error
	c.OnResponse(func(resp *colly.Response) {
		body = resp.Body
	})
	c.OnError(func(resp *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fetchErr != nil {
		var netErr net.Error
		if errors.As(fetchErr, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("%w: %s", ErrWaitTimeout, url)
		}
		return "", fmt.Errorf("fetch %s: %w", url, fetchErr)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", url, err)
	}
	if doc.Find(waitSelector).Length() == 0 {
		r.logger.Debug("selector absent from static page",
			zap.String("url", url),
			zap.String("selector", waitSelector),
		)
		return "", fmt.Errorf("%w: %s", ErrWaitTimeout, url)
	}
	return string(body), nil
}

// Close is a no-op; the collector holds no long-lived resources.
func (r *HTTPRenderer) Close() error { return nil }
