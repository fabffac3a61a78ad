package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

// BrowserSession renders pages in a headless browser via Rod. One page
// is reused across renders; the crawl is strictly sequential so the
// session has no concurrent-use contract.
type BrowserSession struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	logger  *slog.Logger
}

// NewBrowserSession launches a browser and connects to it. Failure here
// is the only unrecoverable error in a crawl run.
func NewBrowserSession(cfg *config.Config, logger *slog.Logger) (*BrowserSession, error) {
	l := launcher.New().
		Headless(cfg.Fetcher.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bs := &BrowserSession{
		browser: browser,
		timeout: cfg.Fetcher.RenderTimeout,
		logger:  logger.With("component", "browser_session"),
	}

	bs.logger.Info("browser session ready",
		"headless", cfg.Fetcher.Headless,
		"render_timeout", cfg.Fetcher.RenderTimeout,
	)
	return bs, nil
}

// Render implements Session.
func (bs *BrowserSession) Render(ctx context.Context, url string) (*types.RenderedPage, error) {
	start := time.Now()

	page, err := bs.getPage()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	if err := page.Context(ctx).Timeout(bs.timeout).Navigate(url); err != nil {
		return nil, wrapRenderErr(url, err)
	}

	// Wait for the document body; this is the bounded content wait.
	body, err := page.Context(ctx).Timeout(bs.timeout).Element("body")
	if err != nil {
		return nil, wrapRenderErr(url, err)
	}

	// Let late-loading content settle; a stability timeout is tolerable.
	if err := page.Timeout(bs.timeout).WaitStable(300 * time.Millisecond); err != nil {
		bs.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	bodyText, err := body.Text()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	bs.logger.Debug("page rendered",
		"url", url,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return &types.RenderedPage{
		URL:           finalURL,
		HTML:          html,
		BodyText:      bodyText,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}, nil
}

// Close shuts down the browser and releases resources.
func (bs *BrowserSession) Close() error {
	if bs.page != nil {
		_ = bs.page.Close()
	}
	if bs.browser != nil {
		return bs.browser.Close()
	}
	return nil
}

// Type returns the session type identifier.
func (bs *BrowserSession) Type() string { return "browser" }

// getPage returns the shared page, creating a stealth page on first use.
func (bs *BrowserSession) getPage() (*rod.Page, error) {
	if bs.page != nil {
		return bs.page, nil
	}
	page, err := stealth.Page(bs.browser)
	if err != nil {
		return nil, fmt.Errorf("stealth page: %w", err)
	}
	bs.page = page
	return page, nil
}

// wrapRenderErr maps deadline expiry onto the timeout sentinel so the
// crawler can treat slow pages as per-query failures.
func wrapRenderErr(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &types.FetchError{URL: url, Err: types.ErrTimeout}
	}
	return &types.FetchError{URL: url, Err: err}
}
