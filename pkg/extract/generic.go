package extract

import (
	"strconv"

	"github.com/listingkit/listingkit/pkg/classify"
	"github.com/listingkit/listingkit/pkg/fetch"
	"github.com/listingkit/listingkit/pkg/record"
)

// Generic is the fallback adapter for unknown families and for known-site
// documents where the curated rules came up short. It reuses the loose
// tail of the shared rule tables but caps every score in the generic
// band, since none of the patterns were validated against the site.
type Generic struct{}

// NewGeneric creates the fallback adapter.
func NewGeneric() *Generic { return &Generic{} }

// Match accepts every family; the registry consults Generic last.
func (g *Generic) Match(classify.SiteFamily) bool { return true }

func (g *Generic) Extract(doc fetch.Document, kind classify.TargetKind) (Extraction, error) {
	x := Extraction{Family: classify.FamilyUnknown}
	if kind == classify.KindAgent {
		x.Agent = genericAgent(doc)
		return x, nil
	}
	x.Property = genericProperty(doc)
	return x, nil
}

func genericProperty(doc fetch.Document) record.PropertyFields {
	var f record.PropertyFields
	body := doc.Body
	meta := parseMeta(body)

	if p, ok := parsePriceString(meta.Price); ok {
		f.Price = genField(doc, p, GenericPrice)
	} else if v, _, ok := firstPrice(body, priceRules); ok {
		f.Price = genField(doc, v, GenericPrice)
	}

	if meta.Address != "" {
		f.Address = genField(doc, meta.Address, GenericText)
	} else if v, _, ok := firstString(body, addressRules); ok {
		f.Address = genField(doc, v, GenericText)
	}

	if v, _, ok := firstInt(body, bedroomRules, bedroomMin, bedroomMax); ok {
		f.Bedrooms = genField(doc, v, GenericNumeric)
	}
	if v, _, ok := firstFloat(body, bathroomRules, bathMin, bathMax); ok {
		f.Bathrooms = genField(doc, v, GenericNumeric)
	}
	if v, _, ok := firstInt(body, areaRules, areaMin, areaMax); ok {
		f.Area = genField(doc, v, GenericNumeric)
	}
	if y, err := strconv.Atoi(meta.YearBuilt); err == nil && y >= yearMin && y <= yearMax {
		f.YearBuilt = genField(doc, y, GenericNumeric)
	} else if v, _, ok := firstInt(body, yearRules, yearMin-1, yearMax+1); ok {
		f.YearBuilt = genField(doc, v, GenericNumeric)
	}
	if v, _, ok := firstString(body, lotSizeRules); ok {
		f.LotSize = genField(doc, v, GenericText)
	}
	if v, _, ok := firstString(body, propertyTypeRules); ok {
		f.PropertyType = genField(doc, v, GenericText)
	}

	switch {
	case meta.Description != "":
		f.Description = genField(doc, meta.Description, GenericText)
	case meta.MetaDescription != "":
		f.Description = genField(doc, meta.MetaDescription, GenericText)
	}

	if items := featureItems(body, 20); len(items) > 0 {
		f.Features = genField(doc, items, GenericText)
	}

	if photos := collectPhotos(body, nil, PhotoCap); len(photos) > 0 {
		f.Photos = genField(doc, photos, GenericPhotos)
	}

	if f.Address != nil {
		if hood, ok := neighborhoodFromAddress(f.Address.Value); ok {
			f.Neighborhood = record.Inferred(hood, GenericText-5)
		}
	}

	return f
}

// genericAgent reuses the shared agent extraction, then flattens every
// confidence into the generic band.
func genericAgent(doc fetch.Document) record.AgentFields {
	f := extractAgent(doc)
	for _, fld := range []*record.Field[string]{f.Name, f.Company, f.Title, f.Bio, f.Phone, f.Email, f.Website, f.Photo} {
		capGeneric(fld)
	}
	capGeneric(f.Specialties)
	capGeneric(f.ServiceAreas)
	return f
}

func capGeneric[T any](f *record.Field[T]) {
	if f == nil {
		return
	}
	if f.Confidence > GenericCeiling {
		f.Confidence = GenericCeiling
	}
	if f.Confidence < GenericFloor {
		f.Confidence = GenericFloor
	}
	f.NeedsReview = f.Confidence < record.ReviewThreshold
}

// genField wraps a generic-band observation, keeping the source rule
// shared with the curated path.
func genField[T any](doc fetch.Document, v T, conf int) *record.Field[T] {
	return newField(doc, v, conf)
}
