// Package fetch implements the layered retrieval engine. An Engine tries an
// ordered list of strategies (direct, proxy relay, structured API, optional
// headless browser) until one yields an unblocked document. Each strategy has
// its own retry with exponential backoff; responses that look like anti-bot
// interstitials count as failures.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Document is the raw content retrieved for a URL, tagged with the strategy
// that produced it. It is ephemeral: discarded once extraction has run.
type Document struct {
	URL        string
	Body       string
	Strategy   string
	StatusCode int
	FetchedAt  time.Time

	// Attempts records, in order, every strategy tried before this
	// document was obtained (including the successful one).
	Attempts []Attempt
}

// Attempt summarizes one strategy's tries for a URL.
type Attempt struct {
	Strategy string
	Tries    int
	Err      error
}

// Strategy is a single way of retrieving a URL's content.
type Strategy interface {
	// Fetch retrieves the document. A response recognized as a soft block
	// must be reported as an error wrapping ErrBlocked.
	Fetch(ctx context.Context, url string) (Document, error)

	// Name identifies the strategy in logs and attempt records.
	Name() string
}

// Sentinel errors distinguishing failure reasons. Check with errors.Is.
var (
	// ErrBlocked indicates a response that was HTTP-successful but carried
	// anti-automation content (CAPTCHA, block notice).
	ErrBlocked = errors.New("soft block detected")

	// ErrExhausted indicates every configured strategy failed.
	ErrExhausted = errors.New("all fetch strategies exhausted")

	// ErrUnsupported indicates a strategy cannot serve this URL at all
	// (e.g. no structured endpoint exists for the site). Not retried.
	ErrUnsupported = errors.New("strategy does not support this URL")
)

// ExhaustedError carries the per-strategy attempt log for a failed fetch.
type ExhaustedError struct {
	URL      string
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = fmt.Sprintf("%s(%d)", a.Strategy, a.Tries)
	}
	return fmt.Sprintf("fetch %s: all strategies exhausted: %s", e.URL, strings.Join(names, ", "))
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }
