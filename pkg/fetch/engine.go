package fetch

import (
	"context"
	"io"

	"github.com/listingkit/listingkit/internal/logger"
)

// Engine tries its strategies strictly in order until one yields an
// unblocked document. There is no speculative racing: sequential fallback
// keeps behavior deterministic and avoids duplicate load on
// already-struggling hosts.
type Engine struct {
	strategies []Strategy
	retry      Backoff
}

// NewEngine creates an engine over an ordered strategy list. A zero
// Backoff selects DefaultBackoff.
func NewEngine(strategies []Strategy, retry Backoff) *Engine {
	if retry.Attempts == 0 {
		retry = DefaultBackoff()
	}
	return &Engine{strategies: strategies, retry: retry}
}

// Fetch retrieves the document for a URL. On success the returned document
// records every strategy attempted, in order. When every strategy fails
// the error is an *ExhaustedError wrapping ErrExhausted.
func (e *Engine) Fetch(ctx context.Context, url string) (Document, error) {
	var attempts []Attempt

	for _, s := range e.strategies {
		var doc Document
		tries := 0
		err := e.retry.Do(ctx, s.Name(), func() error {
			tries++
			d, ferr := s.Fetch(ctx, url)
			if ferr != nil {
				return ferr
			}
			doc = d
			return nil
		})
		attempts = append(attempts, Attempt{Strategy: s.Name(), Tries: tries, Err: err})

		if err == nil {
			doc.Attempts = attempts
			logger.Debug("fetch succeeded", "url", url, "strategy", s.Name(), "tries", tries)
			return doc, nil
		}
		logger.Debug("strategy exhausted, falling through", "url", url, "strategy", s.Name(), "error", err)

		if ctx.Err() != nil {
			break
		}
	}

	return Document{}, &ExhaustedError{URL: url, Attempts: attempts}
}

// Close releases resources held by closable strategies (browser
// instances and the like).
func (e *Engine) Close() error {
	var firstErr error
	for _, s := range e.strategies {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
