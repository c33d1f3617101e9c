package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/listingkit/listingkit/internal/logger"
	"github.com/listingkit/listingkit/pkg/classify"
)

// Resolver maps a page URL to candidate machine-readable endpoints for its
// site, usually keyed by an ID embedded in the URL. An empty slice means
// the URL carries no usable ID.
type Resolver func(pageURL string) []string

var zillowIDPattern = regexp.MustCompile(`/(\d+)_zpid`)

// DefaultResolvers returns the per-family endpoint resolvers. Endpoint
// availability is not guaranteed; the strategy is a best-effort fallback
// and reports ErrUnsupported for families without a resolver.
func DefaultResolvers() map[classify.SiteFamily]Resolver {
	return map[classify.SiteFamily]Resolver{
		classify.FamilyZillow: func(pageURL string) []string {
			m := zillowIDPattern.FindStringSubmatch(pageURL)
			if m == nil {
				return nil
			}
			zpid := m[1]
			return []string{
				"https://www.zillow.com/graphql/?zpid=" + zpid,
				"https://www.zillow.com/api/v1/property/" + zpid,
			}
		},
	}
}

// API queries a site's structured endpoint directly, bypassing HTML
// parsing. The JSON body it returns still flows through the normal
// extraction adapters, whose first-tier rules match JSON keys.
type API struct {
	resolvers map[classify.SiteFamily]Resolver
	client    *http.Client
}

// NewAPI creates a structured-API fallback strategy. A nil resolver map
// selects DefaultResolvers.
func NewAPI(resolvers map[classify.SiteFamily]Resolver, timeout time.Duration) *API {
	if resolvers == nil {
		resolvers = DefaultResolvers()
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &API{
		resolvers: resolvers,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name identifies the strategy.
func (a *API) Name() string { return "api" }

// Fetch resolves the URL's family, derives candidate endpoints and returns
// the first JSON response that is not a block page.
func (a *API) Fetch(ctx context.Context, targetURL string) (Document, error) {
	_, family := classify.Classify(targetURL)
	resolver, ok := a.resolvers[family]
	if !ok {
		return Document{}, fmt.Errorf("api fetch: family %s: %w", family, ErrUnsupported)
	}

	endpoints := resolver(targetURL)
	if len(endpoints) == 0 {
		return Document{}, fmt.Errorf("api fetch: no endpoint id in url: %w", ErrUnsupported)
	}

	var lastErr error
	for _, endpoint := range endpoints {
		doc, err := a.query(ctx, endpoint, targetURL)
		if err != nil {
			logger.Debug("api endpoint failed", "endpoint", endpoint, "error", err)
			lastErr = err
			continue
		}
		return doc, nil
	}
	return Document{}, fmt.Errorf("api fetch: %w", lastErr)
}

func (a *API) query(ctx context.Context, endpoint, targetURL string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Document{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[0])
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("read body: %w", err)
	}

	body := strings.TrimSpace(string(raw))
	if body == "" || (body[0] != '{' && body[0] != '[') {
		return Document{}, fmt.Errorf("not a JSON body")
	}
	if Blocked(body) {
		return Document{}, ErrBlocked
	}

	return Document{
		URL:        targetURL,
		Body:       body,
		Strategy:   a.Name(),
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}
