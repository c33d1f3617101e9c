package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/listingkit/listingkit/internal/logger"
)

// RelayEndpoint describes one public relay service. Wrapped endpoints
// return a JSON envelope with the page body under a "contents" key; raw
// endpoints return the body directly.
type RelayEndpoint struct {
	Name    string
	URL     string // format string; %s receives the (encoded) target URL
	Wrapped bool   // body arrives inside a JSON envelope
	Encode  bool   // target URL must be query-escaped
}

// DefaultRelays lists the relay endpoints tried in order.
func DefaultRelays() []RelayEndpoint {
	return []RelayEndpoint{
		{Name: "allorigins", URL: "https://api.allorigins.win/get?url=%s", Wrapped: true, Encode: true},
		{Name: "corsproxy", URL: "https://corsproxy.io/?%s", Encode: true},
		{Name: "thingproxy", URL: "https://thingproxy.freeboard.io/fetch/%s"},
	}
}

// relayEnvelope is the JSON envelope wrapped relays respond with.
type relayEnvelope struct {
	Contents string `json:"contents"`
}

// Relay routes requests through public relay endpoints, tried in sequence
// until one responds with an unblocked body.
type Relay struct {
	endpoints []RelayEndpoint
	client    *http.Client
}

// NewRelay creates a relay strategy. A nil or empty endpoint list selects
// DefaultRelays.
func NewRelay(endpoints []RelayEndpoint, timeout time.Duration) *Relay {
	if len(endpoints) == 0 {
		endpoints = DefaultRelays()
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Relay{
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name identifies the strategy.
func (r *Relay) Name() string { return "relay" }

// Fetch tries each relay endpoint in order and returns the first
// successful, unblocked body.
func (r *Relay) Fetch(ctx context.Context, targetURL string) (Document, error) {
	var lastErr error
	for _, ep := range r.endpoints {
		doc, err := r.fetchVia(ctx, ep, targetURL)
		if err != nil {
			logger.Debug("relay endpoint failed", "relay", ep.Name, "url", targetURL, "error", err)
			lastErr = err
			continue
		}
		return doc, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no relay endpoints configured")
	}
	return Document{}, fmt.Errorf("relay fetch: %w", lastErr)
}

func (r *Relay) fetchVia(ctx context.Context, ep RelayEndpoint, targetURL string) (Document, error) {
	target := targetURL
	if ep.Encode {
		target = url.QueryEscape(targetURL)
	}
	relayURL := fmt.Sprintf(ep.URL, target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, relayURL, nil)
	if err != nil {
		return Document{}, fmt.Errorf("%s: build request: %w", ep.Name, err)
	}
	req.Header.Set("User-Agent", userAgents[0])

	resp, err := r.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", ep.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("%s: status %d", ep.Name, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("%s: read body: %w", ep.Name, err)
	}

	body := string(raw)
	if ep.Wrapped {
		var env relayEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return Document{}, fmt.Errorf("%s: decode envelope: %w", ep.Name, err)
		}
		if env.Contents == "" {
			return Document{}, fmt.Errorf("%s: empty envelope", ep.Name)
		}
		body = env.Contents
	}

	if Blocked(body) {
		return Document{}, fmt.Errorf("%s: %w", ep.Name, ErrBlocked)
	}

	return Document{
		URL:        targetURL,
		Body:       body,
		Strategy:   r.Name(),
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}
