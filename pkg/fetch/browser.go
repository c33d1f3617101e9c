package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/listingkit/listingkit/internal/logger"
)

// BrowserConfig controls the headless-browser strategy.
type BrowserConfig struct {
	Timeout      time.Duration
	WaitDuration time.Duration // extra settle time after load
}

// Browser fetches JavaScript-rendered pages with a headless Chrome
// instance. Optional: it is only placed in the strategy chain when enabled
// by configuration, since it needs a local Chrome install.
type Browser struct {
	config    BrowserConfig
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewBrowser creates a browser strategy with a shared allocator.
func NewBrowser(cfg BrowserConfig) (*Browser, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgents[0]),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Browser{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Name identifies the strategy.
func (b *Browser) Name() string { return "browser" }

// Fetch renders the page in a fresh browser context and returns its HTML.
func (b *Browser) Fetch(ctx context.Context, targetURL string) (Document, error) {
	result := Document{
		URL:       targetURL,
		Strategy:  b.Name(),
		FetchedAt: time.Now(),
	}

	browserCtx, cancelBrowser := chromedp.NewContext(b.allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, b.config.Timeout)
	defer cancelTimeout()

	// chromedp contexts must derive from the allocator, so caller
	// cancellation is propagated by hand.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible("body"),
	}
	if b.config.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(b.config.WaitDuration))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		return result, fmt.Errorf("browser fetch: %w", err)
	}
	logger.Debug("browser fetch rendered", "url", targetURL, "html_size", len(html))

	result.Body = html
	result.StatusCode = 200 // chromedp does not expose the status code

	if Blocked(result.Body) {
		return result, fmt.Errorf("browser fetch: %w", ErrBlocked)
	}
	return result, nil
}

// Close releases the browser allocator.
func (b *Browser) Close() error {
	if b.cancelCtx != nil {
		b.cancelCtx()
	}
	return nil
}
