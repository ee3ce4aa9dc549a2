//go:build integration

package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/user/review-sentiment/internal/config"
)

type testSite struct {
	*httptest.Server
	stylesheetHits atomic.Int32
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	site := &testSite{}
	mux := http.NewServeMux()
	mux.HandleFunc("/style.css", func(w http.ResponseWriter, r *http.Request) {
		site.stylesheetHits.Add(1)
		w.Header().Set("Content-Type", "text/css")
		fmt.Fprint(w, "body { color: red; }")
	})
	mux.HandleFunc("/dp/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><link rel="stylesheet" href="/style.css"></head>
<body><span data-hook="review-body"><span>Review for %s</span></span></body></html>`, r.URL.Path)
	})
	site.Server = httptest.NewServer(mux)
	t.Cleanup(site.Close)
	return site
}

func newTestSession(t *testing.T, launchCtx context.Context) *Session {
	t.Helper()
	s, err := NewSession(launchCtx, Options{
		Headless:         true,
		UserAgent:        config.DefaultUserAgent,
		WindowWidth:      1280,
		WindowHeight:     800,
		WaitTimeout:      15 * time.Second,
		BlockedResources: []string{"Image", "Stylesheet", "Font"},
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionOutlivesLaunchContext(t *testing.T) {
	site := newTestSite(t)

	launchCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	s := newTestSession(t, launchCtx)
	cancel()

	for _, path := range []string{"/dp/A", "/dp/B"} {
		html, err := s.Render(context.Background(), site.URL+path, `span[data-hook="review-body"]`)
		if err != nil {
			t.Fatalf("Render %s: %v", path, err)
		}
		if !strings.Contains(html, "Review for "+path) {
			t.Fatalf("Render %s returned unexpected html: %s", path, html)
		}
	}
	if hits := site.stylesheetHits.Load(); hits != 0 {
		t.Errorf("blocked stylesheet fetched %d times", hits)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestSessionWaitTimeout(t *testing.T) {
	site := newTestSite(t)
	s := newTestSession(t, context.Background())
	s.opts.WaitTimeout = 2 * time.Second

	_, err := s.Render(context.Background(), site.URL+"/dp/A", "#never-present")
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("err = %v, want ErrWaitTimeout", err)
	}
}

func TestSessionLaunchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSession(ctx, Options{Headless: true, WaitTimeout: time.Second}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("NewSession succeeded with a cancelled context")
	}
}
