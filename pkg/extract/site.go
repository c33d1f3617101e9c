package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/listingkit/listingkit/pkg/classify"
	"github.com/listingkit/listingkit/pkg/fetch"
	"github.com/listingkit/listingkit/pkg/record"
)

// SiteAdapter extracts fields for one known site family, driven by the
// family's pattern profile.
type SiteAdapter struct {
	profile Profile
}

// NewSiteAdapter creates the adapter for a family profile.
func NewSiteAdapter(p Profile) *SiteAdapter {
	return &SiteAdapter{profile: p}
}

// Match reports whether this adapter serves the family.
func (a *SiteAdapter) Match(family classify.SiteFamily) bool {
	return family == a.profile.Family
}

// Extract runs the profile's tiered rules over the document. Missing
// attributes are omitted; a document that matches nothing yields an empty
// extraction and no error.
func (a *SiteAdapter) Extract(doc fetch.Document, kind classify.TargetKind) (Extraction, error) {
	x := Extraction{Family: a.profile.Family}
	if kind == classify.KindAgent {
		x.Agent = extractAgent(doc)
		return x, nil
	}
	x.Property = a.extractProperty(doc)
	return x, nil
}

func (a *SiteAdapter) extractProperty(doc fetch.Document) record.PropertyFields {
	var f record.PropertyFields
	body := doc.Body
	meta := parseMeta(body)

	// Price: structured metadata first, then the tiered rules.
	if p, ok := parsePriceString(meta.Price); ok {
		f.Price = newField(doc, p, TierStructured)
	} else if v, tier, ok := firstPrice(body, priceRules); ok {
		f.Price = newField(doc, v, tier)
	}

	if meta.Address != "" {
		f.Address = newField(doc, meta.Address, TierStructured)
	} else if v, tier, ok := firstString(body, addressRules); ok {
		f.Address = newField(doc, v, tier)
	} else if addr, ok := addressFromURL(doc.URL); ok {
		f.Address = record.Inferred(addr, TierLoose)
	}

	if v, tier, ok := firstInt(body, bedroomRules, bedroomMin, bedroomMax); ok {
		f.Bedrooms = newField(doc, v, tier)
	}
	if v, tier, ok := firstFloat(body, bathroomRules, bathMin, bathMax); ok {
		f.Bathrooms = newField(doc, v, tier)
	}
	if v, tier, ok := firstInt(body, areaRules, areaMin, areaMax); ok {
		f.Area = newField(doc, v, tier)
	}
	if y, err := strconv.Atoi(meta.YearBuilt); err == nil && y >= yearMin && y <= yearMax {
		f.YearBuilt = newField(doc, y, TierStructured)
	} else if v, tier, ok := firstInt(body, yearRules, yearMin-1, yearMax+1); ok {
		f.YearBuilt = newField(doc, v, tier)
	}
	if v, tier, ok := firstString(body, lotSizeRules); ok {
		f.LotSize = newField(doc, v, tier)
	}
	if v, tier, ok := firstString(body, propertyTypeRules); ok {
		f.PropertyType = newField(doc, v, tier)
	}

	if meta.Description != "" {
		f.Description = newField(doc, meta.Description, TierStructured)
	} else if meta.MetaDescription != "" {
		f.Description = newField(doc, meta.MetaDescription, TierLabeled)
	} else if v, tier, ok := firstString(body, descriptionRules); ok {
		f.Description = newField(doc, v, tier)
	}

	if items := featureItems(body, 20); len(items) > 0 {
		f.Features = newField(doc, items, TierLoose)
	}

	if v, tier, ok := firstString(body, agentNameRules); ok {
		f.AgentName = newField(doc, v, tier)
	}
	if v, tier, ok := firstString(body, agentCompanyRules); ok {
		f.AgentCompany = newField(doc, v, tier)
	}

	// Photos from the family's media host, topped up with JSON-LD images.
	photoBody := body
	if len(meta.Images) > 0 {
		photoBody += "\n" + strings.Join(meta.Images, "\n")
	}
	photos := collectPhotos(photoBody, a.profile.PhotoHosts, PhotoCap)
	if len(photos) == 0 && len(a.profile.PhotoHosts) > 0 {
		photos = collectPhotos(photoBody, nil, PhotoCap)
	}
	if len(photos) > 0 {
		f.Photos = newField(doc, photos, TierLabeled)
	}

	// Neighborhood is derived, not observed: the city segment of the
	// address.
	if f.Address != nil {
		if hood, ok := neighborhoodFromAddress(f.Address.Value); ok {
			f.Neighborhood = record.Inferred(hood, 60)
		}
	}

	return f
}

var cityPattern = regexp.MustCompile(`,\s*([^,]+),\s*[A-Z]{2}\b`)

// neighborhoodFromAddress extracts the city segment of a US-shaped
// address.
func neighborhoodFromAddress(address string) (string, bool) {
	m := cityPattern.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

var urlAddressPattern = regexp.MustCompile(`/homedetails/([^/]+)/`)

// addressFromURL recovers a human-readable address from listing URL slugs
// of the /homedetails/<street-city-st-zip>/ shape.
func addressFromURL(pageURL string) (string, bool) {
	m := urlAddressPattern.FindStringSubmatch(pageURL)
	if m == nil {
		return "", false
	}
	slug, err := url.PathUnescape(m[1])
	if err != nil {
		slug = m[1]
	}
	addr := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if len(addr) < 8 {
		return "", false
	}
	return addr, true
}

// parsePriceString normalizes a structured-metadata price value.
func parsePriceString(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", ""))
	if err != nil {
		return "", false
	}
	if n <= priceMin || n >= priceMax {
		return "", false
	}
	return formatPrice(n), true
}
