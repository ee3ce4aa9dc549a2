package browser

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"go.uber.org/zap/zaptest"
)

const (
	searchURL      = "https://www.amazon.in/s?k=laptop"
	resultSelector = "div[data-component-type='s-search-result']"
)

func newMockRenderer(t *testing.T) (*HTTPRenderer, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	r, err := NewHTTPRenderer(Options{UserAgent: "test-agent", WaitTimeout: time.Second}, transport, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewHTTPRenderer: %v", err)
	}
	return r, transport
}

func TestHTTPRendererReturnsPage(t *testing.T) {
	r, transport := newMockRenderer(t)
	page := `<html><body><div data-component-type="s-search-result"><h2>Laptop</h2></div></body></html>`
	transport.RegisterResponder("GET", searchURL, httpmock.NewStringResponder(200, page))

	html, err := r.Render(context.Background(), searchURL, resultSelector)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h2>Laptop</h2>") {
		t.Fatalf("unexpected html: %s", html)
	}
	if n := transport.GetCallCountInfo()["GET "+searchURL]; n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}

	// revisiting the same URL is allowed
	if _, err := r.Render(context.Background(), searchURL, resultSelector); err != nil {
		t.Fatalf("second Render: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestHTTPRendererSelectorMissing(t *testing.T) {
	r, transport := newMockRenderer(t)
	transport.RegisterResponder("GET", searchURL,
		httpmock.NewStringResponder(200, `<html><body><p>captcha</p></body></html>`))

	_, err := r.Render(context.Background(), searchURL, resultSelector)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("err = %v, want ErrWaitTimeout", err)
	}
}

func TestHTTPRendererNetworkTimeout(t *testing.T) {
	r, transport := newMockRenderer(t)
	transport.RegisterResponder("GET", searchURL,
		httpmock.NewErrorResponder(&net.DNSError{Err: "i/o timeout", Name: "www.amazon.in", IsTimeout: true}))

	_, err := r.Render(context.Background(), searchURL, resultSelector)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("err = %v, want ErrWaitTimeout", err)
	}
}

func TestHTTPRendererServerError(t *testing.T) {
	r, transport := newMockRenderer(t)
	transport.RegisterResponder("GET", searchURL, httpmock.NewStringResponder(503, "unavailable"))

	_, err := r.Render(context.Background(), searchURL, resultSelector)
	if err == nil || errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("err = %v, want non-timeout error", err)
	}
}

func TestHTTPRendererCancelledContext(t *testing.T) {
	r, _ := newMockRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, searchURL, resultSelector); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
