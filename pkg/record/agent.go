package record

import (
	"time"

	"github.com/listingkit/listingkit/pkg/classify"
)

// AgentFields is the partial field set for an agent profile.
type AgentFields struct {
	Name         *Field[string]   `json:"name,omitempty"`
	Company      *Field[string]   `json:"company,omitempty"`
	Title        *Field[string]   `json:"title,omitempty"`
	Bio          *Field[string]   `json:"bio,omitempty"`
	Specialties  *Field[[]string] `json:"specialties,omitempty"`
	Phone        *Field[string]   `json:"phone,omitempty"`
	Email        *Field[string]   `json:"email,omitempty"`
	Website      *Field[string]   `json:"website,omitempty"`
	ServiceAreas *Field[[]string] `json:"service_areas,omitempty"`
	Photo        *Field[string]   `json:"photo,omitempty"`
}

// Attributes returns the names of the attributes present in the set.
func (f AgentFields) Attributes() []string {
	var attrs []string
	add := func(name string, present bool) {
		if present {
			attrs = append(attrs, name)
		}
	}
	add("name", f.Name != nil)
	add("company", f.Company != nil)
	add("title", f.Title != nil)
	add("bio", f.Bio != nil)
	add("specialties", f.Specialties != nil)
	add("phone", f.Phone != nil)
	add("email", f.Email != nil)
	add("website", f.Website != nil)
	add("service_areas", f.ServiceAreas != nil)
	add("photo", f.Photo != nil)
	return attrs
}

// Count returns the number of attributes present in the set.
func (f AgentFields) Count() int {
	return len(f.Attributes())
}

// AgentRecord is the canonical normalized output for an agent profile URL.
type AgentRecord struct {
	URL         string              `json:"url"`
	Family      classify.SiteFamily `json:"family"`
	Fields      AgentFields         `json:"fields"`
	Warnings    []string            `json:"warnings,omitempty"`
	HarvestedAt time.Time           `json:"harvested_at"`
}

// Usable reports whether the record carries the minimum required field
// for an agent profile (the name).
func (r *AgentRecord) Usable() bool {
	return r.Fields.Name != nil
}
