package browser

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/config"
	"github.com/user/review-sentiment/internal/proxy"
)

// ErrWaitTimeout means the expected elements did not appear before the
// wait deadline.
var ErrWaitTimeout = errors.New("timed out waiting for page content")

// Renderer loads a page and returns its HTML once waitSelector matches.
// A Renderer is owned by one pipeline run and must be closed by it.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (string, error)
	Close() error
}

// Launcher starts a fresh Renderer.
type Launcher func(ctx context.Context) (Renderer, error)

// Options configures a renderer session.
type Options struct {
	Headless         bool
	UserAgent        string
	ProxyServer      string
	WindowWidth      int
	WindowHeight     int
	WaitTimeout      time.Duration
	BlockedResources []string
}

// NewLauncher returns a Launcher for the configured renderer kind. Each
// launch draws a user agent and proxy from pm.
func NewLauncher(cfg *config.Config, pm *proxy.Manager, logger *zap.Logger) Launcher {
	return func(ctx context.Context) (Renderer, error) {
		opts := Options{
			Headless:         cfg.Headless,
			UserAgent:        pm.GetUserAgent(),
			ProxyServer:      pm.GetProxy(),
			WindowWidth:      cfg.WindowWidth,
			WindowHeight:     cfg.WindowHeight,
			WaitTimeout:      cfg.WaitTimeout,
			BlockedResources: cfg.BlockedResources,
		}
		if opts.UserAgent == "" {
			opts.UserAgent = config.DefaultUserAgent
		}

		if cfg.Renderer == config.RendererHTTP {
			return NewHTTPRenderer(opts, nil, logger)
		}
		return NewSession(ctx, opts, logger)
	}
}
