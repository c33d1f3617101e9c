package fetch

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/listingkit/listingkit/internal/logger"
)

// Pools of realistic header values rotated per request to avoid a uniform
// request fingerprint. Read-only shared configuration.
var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

var referrers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://www.yahoo.com/",
	"https://www.facebook.com/",
}

// DirectConfig controls the direct fetch strategy.
type DirectConfig struct {
	Timeout time.Duration

	// MinDelay/MaxDelay bound the randomized pause before each request.
	// Zero values disable the pause (useful in tests).
	MinDelay time.Duration
	MaxDelay time.Duration
}

// DefaultDirectConfig returns the production defaults: 15s timeout and a
// 2-5s randomized inter-request delay.
func DefaultDirectConfig() DirectConfig {
	return DirectConfig{
		Timeout:  15 * time.Second,
		MinDelay: 2 * time.Second,
		MaxDelay: 5 * time.Second,
	}
}

// Direct fetches a URL straight from the target site using Colly with a
// rotating header profile.
type Direct struct {
	config DirectConfig
}

// NewDirect creates a direct fetch strategy.
func NewDirect(cfg DirectConfig) *Direct {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultDirectConfig().Timeout
	}
	return &Direct{config: cfg}
}

// Name identifies the strategy.
func (d *Direct) Name() string { return "direct" }

// Fetch retrieves page content using Colly.
func (d *Direct) Fetch(ctx context.Context, targetURL string) (Document, error) {
	if err := d.pause(ctx); err != nil {
		return Document{}, err
	}

	result := Document{
		URL:       targetURL,
		Strategy:  d.Name(),
		FetchedAt: time.Now(),
	}

	userAgent := userAgents[rand.Intn(len(userAgents))]
	referrer := referrers[rand.Intn(len(referrers))]

	// A fresh collector per request keeps state (cookies, visited set)
	// from leaking across URLs.
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(d.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Referer", referrer)
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.Body = string(r.Body)
		logger.Debug("direct fetch response",
			"url", targetURL,
			"status", r.StatusCode,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("direct fetch: %w", err)
	})

	err := c.Visit(targetURL)
	// 403/429 are how blocked crawlers usually surface.
	if result.StatusCode == 403 || result.StatusCode == 429 {
		return result, fmt.Errorf("direct fetch: status %d: %w", result.StatusCode, ErrBlocked)
	}
	if err != nil {
		return result, fmt.Errorf("direct fetch: visit failed: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	if Blocked(result.Body) {
		return result, fmt.Errorf("direct fetch: %w", ErrBlocked)
	}

	return result, nil
}

// pause sleeps for a randomized interval inside [MinDelay, MaxDelay] to
// avoid a uniform request cadence against the target host.
func (d *Direct) pause(ctx context.Context) error {
	if d.config.MaxDelay <= 0 || d.config.MaxDelay < d.config.MinDelay {
		return nil
	}
	delay := d.config.MinDelay
	if spread := d.config.MaxDelay - d.config.MinDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
