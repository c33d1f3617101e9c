// Package kb renders harvested records into structured knowledge
// documents: sectioned markdown suitable for feeding a downstream
// assistant or indexing pipeline. Missing attributes produce "Not
// specified" lines rather than dropped sections, so every document has
// the same shape.
package kb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/listingkit/listingkit/pkg/record"
)

const notSpecified = "Not specified"

// Section is one titled block of a knowledge document.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Document is a sectioned knowledge rendering of a single record.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// FromProperty builds the knowledge document for a property record.
func FromProperty(rec *record.PropertyRecord) Document {
	f := rec.Fields

	doc := Document{Title: strOr(f.Address, "Property Listing")}

	doc.add("Property Overview",
		kv("Address", str(f.Address)),
		kv("Price", str(f.Price)),
		kv("Bedrooms", intStr(f.Bedrooms)),
		kv("Bathrooms", floatStr(f.Bathrooms)),
		kv("Square Footage", intStr(f.Area)),
		kv("Property Type", str(f.PropertyType)),
		kv("Description", str(f.Description)),
	)

	features := []string{notSpecified}
	if f.Features != nil && len(f.Features.Value) > 0 {
		features = bullets(f.Features.Value)
	}
	doc.add("Features & Amenities", features...)

	doc.add("Financial & Market Information",
		kv("Listing Price", str(f.Price)),
		kv("Price per Square Foot", pricePerSqft(f)),
		kv("Lot Size", str(f.LotSize)),
	)

	doc.add("Neighborhood & Location",
		kv("Neighborhood", str(f.Neighborhood)),
		kv("Address", str(f.Address)),
	)

	doc.add("Property History & Condition",
		kv("Year Built", intStr(f.YearBuilt)),
	)

	doc.add("Showing Instructions & Availability",
		"Contact the listing agent to schedule a showing.",
	)

	doc.add("Agent Contact Information",
		kv("Agent", str(f.AgentName)),
		kv("Company", str(f.AgentCompany)),
	)

	doc.add("FAQ", propertyFAQ(f)...)

	return doc
}

// FromAgent builds the knowledge document for an agent record.
func FromAgent(rec *record.AgentRecord) Document {
	f := rec.Fields

	doc := Document{Title: strOr(f.Name, "Agent Profile")}

	doc.add("Profile Overview",
		kv("Name", str(f.Name)),
		kv("Title", str(f.Title)),
		kv("Company", str(f.Company)),
		kv("Bio", str(f.Bio)),
	)

	specialties := []string{notSpecified}
	if f.Specialties != nil && len(f.Specialties.Value) > 0 {
		specialties = bullets(f.Specialties.Value)
	}
	doc.add("Specialties", specialties...)

	areas := []string{notSpecified}
	if f.ServiceAreas != nil && len(f.ServiceAreas.Value) > 0 {
		areas = bullets(f.ServiceAreas.Value)
	}
	doc.add("Service Areas", areas...)

	doc.add("Contact Information",
		kv("Phone", str(f.Phone)),
		kv("Email", str(f.Email)),
		kv("Website", str(f.Website)),
	)

	return doc
}

// Markdown renders the document as markdown.
func (d Document) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + d.Title + "\n")
	for _, s := range d.Sections {
		b.WriteString("\n## " + s.Title + "\n\n")
		for _, line := range s.Lines {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (d *Document) add(title string, lines ...string) {
	d.Sections = append(d.Sections, Section{Title: title, Lines: lines})
}

func kv(key, value string) string {
	return "- **" + key + ":** " + value
}

func bullets(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return out
}

func str(f *record.Field[string]) string {
	return strOr(f, notSpecified)
}

func strOr(f *record.Field[string], fallback string) string {
	if f == nil || f.Value == "" {
		return fallback
	}
	return f.Value
}

func intStr(f *record.Field[int]) string {
	if f == nil {
		return notSpecified
	}
	return strconv.Itoa(f.Value)
}

func floatStr(f *record.Field[float64]) string {
	if f == nil {
		return notSpecified
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// pricePerSqft derives $/sqft when both price and area are present.
func pricePerSqft(f record.PropertyFields) string {
	if f.Price == nil || f.Area == nil || f.Area.Value == 0 {
		return notSpecified
	}
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimPrefix(f.Price.Value, "$"), ",", ""))
	if err != nil {
		return notSpecified
	}
	return fmt.Sprintf("$%d/sqft", n/f.Area.Value)
}

func propertyFAQ(f record.PropertyFields) []string {
	var lines []string
	q := func(question, answer string) {
		lines = append(lines, "**Q: "+question+"**", "A: "+answer, "")
	}
	q("What is the asking price?", str(f.Price))
	q("How many bedrooms and bathrooms does it have?",
		fmt.Sprintf("%s bedrooms, %s bathrooms", intStr(f.Bedrooms), floatStr(f.Bathrooms)))
	q("What is the square footage?", intStr(f.Area))
	q("When was it built?", intStr(f.YearBuilt))
	return lines
}
