package extract

import (
	"regexp"

	"github.com/listingkit/listingkit/pkg/classify"
)

// Profile is the per-family pattern table driving the site adapter. The
// rule tables are largely shared across families; what varies per site is
// the media host its photos live on and any extra element patterns the
// site's markup calls for.
type Profile struct {
	Family     classify.SiteFamily
	PhotoHosts []*regexp.Regexp
}

// Shared tiered rule tables. Tier-1 rules match structured JSON keys (both
// embedded page state and structured-API payloads); tier-2 rules are the
// curated per-site element and summary-bar patterns; tier-3 rules are
// loose last-resort scans.
var (
	priceRules = []rule{
		{regexp.MustCompile(`"(?:listPrice|price)"\s*:\s*"?\$?([0-9][0-9,]*)"?`), TierStructured},
		{regexp.MustCompile(`data-price="\$?([0-9][0-9,]*)"`), TierLabeled},
		{regexp.MustCompile(`\$([0-9]{2,3}(?:,[0-9]{3})+|[0-9]{5,8})`), TierLabeled},
		{regexp.MustCompile(`(?i)price[^>]*>\s*\$?([0-9][0-9,]*)`), TierLoose},
	}

	addressRules = []rule{
		{regexp.MustCompile(`"(?:streetAddress|fullAddress|address)"\s*:\s*"([^"]{8,120})"`), TierStructured},
		{regexp.MustCompile(`data-testid="(?:home-details-summary-address|address)"[^>]*>([^<]{8,120})<`), TierLabeled},
		{regexp.MustCompile(`data-address="([^"]{8,120})"`), TierLabeled},
		{regexp.MustCompile(`(?i)address[^>]*>([^<]{8,120})<`), TierLoose},
	}

	bedroomRules = []rule{
		{regexp.MustCompile(`"(?:bedrooms|beds)"\s*:\s*"?([0-9]+)"?`), TierStructured},
		{regexp.MustCompile(`data-beds="([0-9]+)"`), TierLabeled},
		{regexp.MustCompile(`(?i)([0-9]+)\s*(?:bd|beds?|bedrooms?)\b`), TierLabeled},
		{regexp.MustCompile(`(?i)bedrooms?[^>]*>\s*([0-9]+)`), TierLoose},
	}

	bathroomRules = []rule{
		{regexp.MustCompile(`"(?:bathrooms|baths)"\s*:\s*"?([0-9]+(?:\.[0-9]+)?)"?`), TierStructured},
		{regexp.MustCompile(`data-baths="([0-9]+(?:\.[0-9]+)?)"`), TierLabeled},
		{regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(?:ba|baths?|bathrooms?)\b`), TierLabeled},
		{regexp.MustCompile(`(?i)bathrooms?[^>]*>\s*([0-9]+(?:\.[0-9]+)?)`), TierLoose},
	}

	areaRules = []rule{
		{regexp.MustCompile(`"(?:livingArea|squareFeet|square_feet|floorSize)"\s*:\s*"?([0-9][0-9,]*)"?`), TierStructured},
		{regexp.MustCompile(`data-sqft="([0-9][0-9,]*)"`), TierLabeled},
		{regexp.MustCompile(`(?i)([0-9][0-9,]{1,6})\s*(?:sq\s*\.?\s*ft|sqft|square\s+feet)`), TierLabeled},
		{regexp.MustCompile(`(?i)square\s*footage[^>]*>\s*([0-9][0-9,]*)`), TierLoose},
	}

	yearRules = []rule{
		{regexp.MustCompile(`"(?:yearBuilt|year_built)"\s*:\s*"?([0-9]{4})"?`), TierStructured},
		{regexp.MustCompile(`(?i)built\s+in\s+([0-9]{4})`), TierLabeled},
		{regexp.MustCompile(`(?i)year\s*built[^>]*>\s*([0-9]{4})`), TierLoose},
	}

	lotSizeRules = []rule{
		{regexp.MustCompile(`"(?:lotSize|lot_size)"\s*:\s*"([^"]{1,40})"`), TierStructured},
		{regexp.MustCompile(`(?i)lot\s*size[^>]*>([^<]{1,40})<`), TierLoose},
	}

	propertyTypeRules = []rule{
		{regexp.MustCompile(`"(?:propertyType|property_type|homeType)"\s*:\s*"([^"]{3,40})"`), TierStructured},
		{regexp.MustCompile(`(?i)property\s*type[^>]*>([^<]{3,40})<`), TierLoose},
	}

	descriptionRules = []rule{
		{regexp.MustCompile(`"description"\s*:\s*"([^"]{40,1000}[^"]{0,1000})"`), TierStructured},
		{regexp.MustCompile(`data-testid="home-description"[^>]*>([^<]{40,1000}[^<]{0,1000})<`), TierLabeled},
	}

	agentNameRules = []rule{
		{regexp.MustCompile(`"(?:agentName|agent_name|listingAgent)"\s*:\s*"([^"]{3,60})"`), TierStructured},
		{regexp.MustCompile(`(?i)listed\s+by[^>]*>([^<]{3,60})<`), TierLoose},
	}

	agentCompanyRules = []rule{
		{regexp.MustCompile(`"(?:agentCompany|agent_company|brokerName|brokerageName)"\s*:\s*"([^"]{3,80})"`), TierStructured},
	}
)

// Per-family media host patterns, from the listing photo CDNs each site
// serves from. Families without an entry fall back to the generic image
// pattern (filtered by keyword exclusions).
func newProfile(family classify.SiteFamily, hosts ...string) Profile {
	p := Profile{Family: family}
	for _, h := range hosts {
		p.PhotoHosts = append(p.PhotoHosts, regexp.MustCompile(h))
	}
	return p
}

// Profiles returns the pattern table for every known site family.
func Profiles() []Profile {
	return []Profile{
		newProfile(classify.FamilyZillow, `https://photos\.zillowstatic\.com/[^"'\s\\<>]+\.(?:jpe?g|png|webp)`),
		newProfile(classify.FamilyRedfin, `https://ssl\.cdn-redfin\.com/[^"'\s\\<>]+\.(?:jpe?g|png|webp)`),
		newProfile(classify.FamilyRealtor, `https://ar\.rdcpix\.com/[^"'\s\\<>]+\.(?:jpe?g|png|webp)`),
		newProfile(classify.FamilyTrulia, `https://www\.trulia\.com/[^"'\s\\<>]+\.(?:jpe?g|png|webp)`),
		newProfile(classify.FamilyHomes),
		newProfile(classify.FamilyCompass),
		newProfile(classify.FamilyBerkshire),
		newProfile(classify.FamilyColdwell),
		newProfile(classify.FamilyRemax),
		newProfile(classify.FamilyKeller),
	}
}
