// Package classify determines what kind of page a URL points at (listing or
// agent profile) and which known site family it belongs to. Classification is
// pure and deterministic: no I/O, no errors. URLs that match nothing fall
// back to the agent kind and the unknown family, which routes extraction to
// the generic adapter.
package classify

import (
	"net/url"
	"strings"
)

// TargetKind is the record shape a URL is expected to yield.
type TargetKind string

const (
	KindListing TargetKind = "listing"
	KindAgent   TargetKind = "agent"
)

// SiteFamily tags the structural conventions a URL's host is expected to
// follow. Unknown families route to the generic adapter.
type SiteFamily string

const (
	FamilyZillow    SiteFamily = "zillow"
	FamilyRedfin    SiteFamily = "redfin"
	FamilyRealtor   SiteFamily = "realtor"
	FamilyTrulia    SiteFamily = "trulia"
	FamilyHomes     SiteFamily = "homes"
	FamilyCompass   SiteFamily = "compass"
	FamilyBerkshire SiteFamily = "berkshire"
	FamilyColdwell  SiteFamily = "coldwell"
	FamilyRemax     SiteFamily = "remax"
	FamilyKeller    SiteFamily = "keller"
	FamilyUnknown   SiteFamily = "unknown"
)

// Families lists every known site family, excluding unknown.
func Families() []SiteFamily {
	return []SiteFamily{
		FamilyZillow, FamilyRedfin, FamilyRealtor, FamilyTrulia, FamilyHomes,
		FamilyCompass, FamilyBerkshire, FamilyColdwell, FamilyRemax, FamilyKeller,
	}
}

// signature is one entry in the ordered family table. Host is matched as a
// substring of the URL host; path, when set, as a substring of the URL path.
// First match wins, so agent-profile signatures precede their family's
// listing catch-all.
type signature struct {
	family SiteFamily
	kind   TargetKind
	host   string
	path   string
}

var signatures = []signature{
	{FamilyZillow, KindAgent, "zillow.com", "/profile"},
	{FamilyZillow, KindListing, "zillow.com", ""},
	{FamilyRedfin, KindAgent, "redfin.com", "/real-estate-agents"},
	{FamilyRedfin, KindListing, "redfin.com", ""},
	{FamilyRealtor, KindAgent, "realtor.com", "/realestateagent"},
	{FamilyRealtor, KindListing, "realtor.com", ""},
	{FamilyTrulia, KindAgent, "trulia.com", "/agent"},
	{FamilyTrulia, KindListing, "trulia.com", ""},
	{FamilyHomes, KindAgent, "homes.com", "/real-estate-agents"},
	{FamilyHomes, KindListing, "homes.com", ""},
	{FamilyCompass, KindAgent, "compass.com", "/agents"},
	{FamilyCompass, KindListing, "compass.com", ""},
	{FamilyBerkshire, KindAgent, "berkshirehathaway", "/agent"},
	{FamilyBerkshire, KindListing, "berkshirehathaway", ""},
	{FamilyColdwell, KindAgent, "coldwellbanker.com", "/agents"},
	{FamilyColdwell, KindListing, "coldwellbanker.com", ""},
	{FamilyRemax, KindAgent, "remax.com", "/real-estate-agents"},
	{FamilyRemax, KindListing, "remax.com", ""},
	{FamilyKeller, KindAgent, "kw.com", "/agent"},
	{FamilyKeller, KindListing, "kw.com", ""},
	{FamilyKeller, KindAgent, "kellerwilliams.com", "/agent"},
	{FamilyKeller, KindListing, "kellerwilliams.com", ""},
}

// Path segments suggesting an agent profile when no family signature matches.
var agentWords = []string{
	"agent", "agents", "realestateagent", "profile", "about", "team",
	"staff", "broker", "realtor", "bio",
}

// Path segments suggesting a property listing.
var listingWords = []string{
	"realestate", "property", "properties", "home", "homes",
	"house", "houses", "listing", "listings", "homedetails", "sale",
}

// Normalize canonicalizes a raw URL string: trims whitespace, forces an
// https scheme when none is present, and strips the query and fragment.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Classify normalizes a URL and resolves its target kind and site family.
// It never fails: unparseable or unrecognized URLs classify as an agent
// page of the unknown family.
func Classify(raw string) (TargetKind, SiteFamily) {
	u, err := url.Parse(Normalize(raw))
	if err != nil || u.Host == "" {
		return KindAgent, FamilyUnknown
	}

	host := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)

	for _, sig := range signatures {
		if !strings.Contains(host, sig.host) {
			continue
		}
		if sig.path != "" && !strings.Contains(path, sig.path) {
			continue
		}
		return sig.kind, sig.family
	}

	// Secondary heuristics on the path segments of unrecognized hosts.
	segments := strings.FieldsFunc(host+path, func(r rune) bool {
		return r == '/' || r == '.' || r == '-' || r == '_'
	})
	for _, seg := range segments {
		for _, w := range agentWords {
			if seg == w {
				return KindAgent, FamilyUnknown
			}
		}
	}
	for _, seg := range segments {
		for _, w := range listingWords {
			if seg == w {
				return KindListing, FamilyUnknown
			}
		}
	}

	// Agent pages are the more permissive shape to extract generically.
	return KindAgent, FamilyUnknown
}
