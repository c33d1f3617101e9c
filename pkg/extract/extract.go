// Package extract turns raw fetched documents into partial field sets. One
// parameterized adapter serves every known site family, driven by
// per-family pattern tables; a generic adapter covers unknown families and
// backs up specific adapters that yield too little.
package extract

import (
	"github.com/listingkit/listingkit/pkg/classify"
	"github.com/listingkit/listingkit/pkg/fetch"
	"github.com/listingkit/listingkit/pkg/record"
)

// Confidence scores by rule tier. Structured metadata (JSON keys, JSON-LD)
// is the most precise; curated per-site element patterns come next; loose
// substring scans are last-resort.
const (
	TierStructured = 90
	TierLabeled    = 75
	TierLoose      = 55
)

// Generic-adapter confidence scores. The generic pass is family-agnostic
// and scores low regardless of which pattern matched.
const (
	GenericText    = 50
	GenericNumeric = 50
	GenericPrice   = 55
	GenericPhotos  = 45

	// GenericFloor and GenericCeiling bound the band.
	GenericFloor   = 40
	GenericCeiling = 60
)

// PhotoCap bounds the number of photo URLs kept per document.
const PhotoCap = 15

// Extraction is the partial output of one adapter pass. Only the set
// matching the requested target kind is populated.
type Extraction struct {
	Property record.PropertyFields
	Agent    record.AgentFields
	Family   classify.SiteFamily
}

// Adapter extracts fields from a raw document. Adapters never fail on
// missing fields; absent attributes are simply omitted. A hard parse
// failure surfaces as an empty extraction, which callers treat as "adapter
// yielded nothing".
type Adapter interface {
	Match(family classify.SiteFamily) bool
	Extract(doc fetch.Document, kind classify.TargetKind) (Extraction, error)
}

// Registry resolves the adapter for a site family.
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry builds the default registry: one site adapter per known
// family profile plus the generic fallback.
func NewRegistry() *Registry {
	r := &Registry{generic: NewGeneric()}
	for _, p := range Profiles() {
		r.adapters = append(r.adapters, NewSiteAdapter(p))
	}
	return r
}

// For returns the adapter registered for a family, or the generic adapter
// when none matches.
func (r *Registry) For(family classify.SiteFamily) Adapter {
	for _, a := range r.adapters {
		if a.Match(family) {
			return a
		}
	}
	return r.generic
}

// Generic returns the family-agnostic fallback adapter.
func (r *Registry) Generic() Adapter { return r.generic }

// Sufficient reports whether an extraction meets the minimum field
// threshold: address, price and at least one numeric attribute for
// listings; a name for agents. Below it, callers run the generic adapter
// as a second pass.
func Sufficient(x Extraction, kind classify.TargetKind) bool {
	if kind == classify.KindAgent {
		return x.Agent.Name != nil
	}
	p := x.Property
	if p.Address == nil || p.Price == nil {
		return false
	}
	return p.Bedrooms != nil || p.Bathrooms != nil || p.Area != nil
}

// newField wraps a value with provenance matching the document's origin:
// structured_api for API-strategy bodies, scraped otherwise.
func newField[T any](doc fetch.Document, value T, confidence int) *record.Field[T] {
	if doc.Strategy == "api" {
		return record.FromAPI(value, confidence)
	}
	return record.Scraped(value, confidence)
}
