// Package pipeline wires the full acquisition flow: classify a URL, fetch
// its content through the layered engine, run the matching extraction
// adapter (with a generic second pass when the first yields too little),
// merge the partial field sets and assemble the final record.
package pipeline

import (
	"context"
	"fmt"

	"github.com/listingkit/listingkit/internal/logger"
	"github.com/listingkit/listingkit/pkg/classify"
	"github.com/listingkit/listingkit/pkg/extract"
	"github.com/listingkit/listingkit/pkg/fetch"
	"github.com/listingkit/listingkit/pkg/record"
)

// Harvester runs the acquisition pipeline for single URLs and batches.
// Safe for sequential reuse; Close releases strategy resources.
type Harvester struct {
	config     Config
	strategies []fetch.Strategy
	engine     *fetch.Engine
	registry   *extract.Registry
}

// Result is the outcome of harvesting one URL. Exactly one of Property
// and Agent is set on success, matching Kind.
type Result struct {
	URL      string                 `json:"url"`
	Kind     classify.TargetKind    `json:"kind"`
	Family   classify.SiteFamily    `json:"family"`
	Property *record.PropertyRecord `json:"property,omitempty"`
	Agent    *record.AgentRecord    `json:"agent,omitempty"`
}

// New creates a harvester. Unless overridden by WithStrategies, the
// strategy chain is direct, proxy relay, structured API, and optionally
// the headless browser.
func New(cfg Config, opts ...Option) (*Harvester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Harvester{config: cfg, registry: extract.NewRegistry()}
	for _, opt := range opts {
		opt(h)
	}

	if h.strategies == nil {
		strategies, err := defaultStrategies(cfg)
		if err != nil {
			return nil, err
		}
		h.strategies = strategies
	}

	h.engine = fetch.NewEngine(h.strategies, fetch.Backoff{
		Attempts: cfg.RetryAttempts,
		Base:     cfg.RetryBase,
	})
	return h, nil
}

func defaultStrategies(cfg Config) ([]fetch.Strategy, error) {
	strategies := []fetch.Strategy{
		fetch.NewDirect(fetch.DirectConfig{
			Timeout:  cfg.Timeout,
			MinDelay: cfg.MinDelay,
			MaxDelay: cfg.MaxDelay,
		}),
		fetch.NewRelay(fetch.DefaultRelays(), cfg.Timeout),
		fetch.NewAPI(fetch.DefaultResolvers(), cfg.Timeout),
	}
	if cfg.UseBrowser {
		browser, err := fetch.NewBrowser(fetch.BrowserConfig{Timeout: 2 * cfg.Timeout})
		if err != nil {
			return nil, fmt.Errorf("starting browser strategy: %w", err)
		}
		strategies = append(strategies, browser)
	}
	return strategies, nil
}

// Run harvests one URL end to end. Fetch exhaustion is returned as an
// error (an *fetch.ExhaustedError); extraction shortfalls are not errors,
// they surface as warnings on the record.
func (h *Harvester) Run(ctx context.Context, rawURL string) (*Result, error) {
	url := classify.Normalize(rawURL)
	kind, family := classify.Classify(url)
	logger.Info("harvesting", "url", url, "kind", kind, "family", family)

	doc, err := h.engine.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	res := &Result{URL: url, Kind: kind, Family: family}

	primary, err := h.registry.For(family).Extract(doc, kind)
	if err != nil {
		logger.Warn("site extraction failed, falling back to generic", "url", url, "error", err)
	}

	extractions := []extract.Extraction{primary}
	if !extract.Sufficient(primary, kind) {
		generic, gerr := h.registry.Generic().Extract(doc, kind)
		if gerr == nil {
			extractions = append(extractions, generic)
		}
	}

	if kind == classify.KindAgent {
		res.Agent = assembleAgent(url, family, doc, extractions)
	} else {
		res.Property = assembleProperty(url, family, doc, extractions)
	}
	return res, nil
}

func assembleProperty(url string, family classify.SiteFamily, doc fetch.Document, extractions []extract.Extraction) *record.PropertyRecord {
	sets := make([]record.PropertyFields, len(extractions))
	for i, x := range extractions {
		sets[i] = x.Property
	}

	rec := &record.PropertyRecord{
		URL:         url,
		Family:      family,
		Fields:      record.MergeProperty(sets...),
		HarvestedAt: doc.FetchedAt,
	}
	if rec.Fields.Address == nil {
		rec.Warnings = append(rec.Warnings, "missing required field: address")
	}
	if rec.Fields.Price == nil {
		rec.Warnings = append(rec.Warnings, "missing required field: price")
	}
	logger.Info("assembled property record",
		"url", url, "attributes", rec.Fields.Count(), "photos", rec.Fields.PhotoCount(), "usable", rec.Usable())
	return rec
}

func assembleAgent(url string, family classify.SiteFamily, doc fetch.Document, extractions []extract.Extraction) *record.AgentRecord {
	sets := make([]record.AgentFields, len(extractions))
	for i, x := range extractions {
		sets[i] = x.Agent
	}

	rec := &record.AgentRecord{
		URL:         url,
		Family:      family,
		Fields:      record.MergeAgent(sets...),
		HarvestedAt: doc.FetchedAt,
	}
	if rec.Fields.Name == nil {
		rec.Warnings = append(rec.Warnings, "missing required field: name")
	}
	logger.Info("assembled agent record", "url", url, "attributes", rec.Fields.Count(), "usable", rec.Usable())
	return rec
}

// Close releases resources held by the strategy chain.
func (h *Harvester) Close() error {
	return h.engine.Close()
}
