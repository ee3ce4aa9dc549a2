package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultLaunchTimeout = 30 * time.Second

// Session is one headless Chrome instance with a single tab.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
	logger      *zap.Logger
	closeOnce   sync.Once
	closeErr    error
}

// NewSession launches Chrome and prepares the tab: blocked resource types
// fail at the Fetch domain and document cookies are disabled. ctx bounds
// only the launch; the browser process lives until Close.
func NewSession(ctx context.Context, opts Options, logger *zap.Logger) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	if opts.ProxyServer != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.ProxyServer))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Debugf),
	)

	s := &Session{
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		logger:      logger,
	}

	blocked := make(map[network.ResourceType]bool, len(opts.BlockedResources))
	for _, r := range opts.BlockedResources {
		blocked[network.ResourceType(r)] = true
	}
	if len(blocked) > 0 {
		s.listenRequests(blocked)
	}

	setup := []chromedp.Action{emulation.SetDocumentCookieDisabled(true)}
	if len(blocked) > 0 {
		setup = append([]chromedp.Action{fetch.Enable()}, setup...)
	}

	// The first Run allocates the browser and ties its process to the
	// context it is given, so it must run on the session context. The launch
	// bound is enforced by closing the session instead.
	launched := make(chan error, 1)
	go func() { launched <- chromedp.Run(tabCtx, setup...) }()

	launchTimeout := max(opts.WaitTimeout, defaultLaunchTimeout)
	timer := time.NewTimer(launchTimeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-launched:
	case <-timer.C:
		err = fmt.Errorf("browser not ready after %s", launchTimeout)
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	logger.Debug("browser session started",
		zap.Bool("headless", opts.Headless),
		zap.Bool("proxy", opts.ProxyServer != ""),
		zap.Strings("blocked_resources", opts.BlockedResources),
	)
	return s, nil
}

func (s *Session) listenRequests(blocked map[network.ResourceType]bool) {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		// Handlers must not block the event loop.
		go func() {
			c := chromedp.FromContext(s.ctx)
			if c == nil || c.Target == nil {
				return
			}
			execCtx := cdp.WithExecutor(s.ctx, c.Target)
			var err error
			if blocked[paused.ResourceType] {
				err = fetch.FailRequest(paused.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
			} else {
				err = fetch.ContinueRequest(paused.RequestID).Do(execCtx)
			}
			if err != nil && s.ctx.Err() == nil {
				s.logger.Debug("request interception failed",
					zap.String("url", paused.Request.URL),
					zap.Error(err),
				)
			}
		}()
	})
}

// Render navigates the tab to url and waits up to the session's wait
// timeout for waitSelector to exist. Cancelling ctx aborts the render.
func (s *Session) Render(ctx context.Context, url, waitSelector string) (string, error) {
	renderCtx, cancel := context.WithTimeout(s.ctx, s.opts.WaitTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(renderCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(renderCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrWaitTimeout, url)
		}
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancel()
		s.allocCancel()
		if errors.Is(s.closeErr, context.Canceled) {
			s.closeErr = nil
		}
		s.logger.Debug("browser session closed")
	})
	return s.closeErr
}
