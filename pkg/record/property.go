package record

import (
	"time"

	"github.com/listingkit/listingkit/pkg/classify"
)

// PropertyFields is the partial field set for a property listing. A nil
// pointer means the attribute was not extracted; attributes are absent
// rather than defaulted.
type PropertyFields struct {
	Address      *Field[string]   `json:"address,omitempty"`
	Price        *Field[string]   `json:"price,omitempty"`
	Bedrooms     *Field[int]      `json:"bedrooms,omitempty"`
	Bathrooms    *Field[float64]  `json:"bathrooms,omitempty"`
	Area         *Field[int]      `json:"area,omitempty"`
	Description  *Field[string]   `json:"description,omitempty"`
	Features     *Field[[]string] `json:"features,omitempty"`
	Neighborhood *Field[string]   `json:"neighborhood,omitempty"`
	Photos       *Field[[]string] `json:"photos,omitempty"`
	YearBuilt    *Field[int]      `json:"year_built,omitempty"`
	LotSize      *Field[string]   `json:"lot_size,omitempty"`
	PropertyType *Field[string]   `json:"property_type,omitempty"`
	AgentName    *Field[string]   `json:"agent_name,omitempty"`
	AgentCompany *Field[string]   `json:"agent_company,omitempty"`
}

// Attributes returns the names of the attributes present in the set.
func (f PropertyFields) Attributes() []string {
	var attrs []string
	add := func(name string, present bool) {
		if present {
			attrs = append(attrs, name)
		}
	}
	add("address", f.Address != nil)
	add("price", f.Price != nil)
	add("bedrooms", f.Bedrooms != nil)
	add("bathrooms", f.Bathrooms != nil)
	add("area", f.Area != nil)
	add("description", f.Description != nil)
	add("features", f.Features != nil)
	add("neighborhood", f.Neighborhood != nil)
	add("photos", f.Photos != nil)
	add("year_built", f.YearBuilt != nil)
	add("lot_size", f.LotSize != nil)
	add("property_type", f.PropertyType != nil)
	add("agent_name", f.AgentName != nil)
	add("agent_company", f.AgentCompany != nil)
	return attrs
}

// Count returns the number of attributes present in the set.
func (f PropertyFields) Count() int {
	return len(f.Attributes())
}

// PhotoCount returns the number of photo URLs in the set.
func (f PropertyFields) PhotoCount() int {
	if f.Photos == nil {
		return 0
	}
	return len(f.Photos.Value)
}

// PropertyRecord is the canonical normalized output for a listing URL.
// The pipeline never mutates a record after assembly; later corrections are
// new Field values produced by the caller via Override.
type PropertyRecord struct {
	URL         string              `json:"url"`
	Family      classify.SiteFamily `json:"family"`
	Fields      PropertyFields      `json:"fields"`
	Warnings    []string            `json:"warnings,omitempty"`
	HarvestedAt time.Time           `json:"harvested_at"`
}

// Usable reports whether the record carries the minimum required fields
// (address and price). Records missing them are returned to callers as
// provisional, with the gaps listed in Warnings.
func (r *PropertyRecord) Usable() bool {
	return r.Fields.Address != nil && r.Fields.Price != nil
}
