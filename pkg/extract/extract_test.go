package extract

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/listingkit/listingkit/pkg/classify"
	"github.com/listingkit/listingkit/pkg/fetch"
	"github.com/listingkit/listingkit/pkg/record"
)

func htmlDoc(body string) fetch.Document {
	return fetch.Document{
		URL:        "https://www.zillow.com/homedetails/123-Main-St-Austin-TX-78701/29482_zpid/",
		Body:       body,
		Strategy:   "direct",
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}
}

func siteAdapter(t *testing.T, family classify.SiteFamily) Adapter {
	t.Helper()
	a := NewRegistry().For(family)
	if _, ok := a.(*Generic); ok {
		t.Fatalf("no site adapter registered for family %s", family)
	}
	return a
}

// --- Registry Tests ---

func TestRegistry_ResolvesEveryKnownFamily(t *testing.T) {
	r := NewRegistry()
	for _, family := range classify.Families() {
		if _, ok := r.For(family).(*Generic); ok {
			t.Errorf("family %s fell through to the generic adapter", family)
		}
	}
}

func TestRegistry_UnknownFamilyGetsGeneric(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.For(classify.FamilyUnknown).(*Generic); !ok {
		t.Error("unknown family must resolve to the generic adapter")
	}
}

// --- Site Adapter Listing Tests ---

func TestSiteAdapter_SummaryBar(t *testing.T) {
	body := `<html>
		<div class="address">123 Main St, Austin, TX 78701</div>
		<div class="summary">$450,000 &middot; 3 bd &middot; 2 ba &middot; 1,800 sqft</div>
	</html>`

	x, err := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	f := x.Property

	if f.Price == nil {
		t.Fatal("price not extracted")
	}
	if f.Price.Value != "$450,000" {
		t.Errorf("price = %s, want $450,000", f.Price.Value)
	}
	if f.Price.Confidence < 75 {
		t.Errorf("price confidence = %d, want >= 75 for a known family", f.Price.Confidence)
	}
	if f.Price.Source != record.SourceScraped {
		t.Errorf("price source = %s, want scraped", f.Price.Source)
	}

	if f.Bedrooms == nil || f.Bedrooms.Value != 3 {
		t.Error("bedrooms = nil or wrong, want 3")
	}
	if f.Bathrooms == nil || f.Bathrooms.Value != 2 {
		t.Error("bathrooms = nil or wrong, want 2")
	}
	if f.Area == nil || f.Area.Value != 1800 {
		t.Error("area = nil or wrong, want 1800")
	}
	if f.Address == nil || !strings.Contains(f.Address.Value, "123 Main St") {
		t.Error("address not extracted")
	}
}

func TestSiteAdapter_EmbeddedJSONScoresHigher(t *testing.T) {
	body := `<script>var state = {"listPrice": 450000, "bedrooms": 3, "bathrooms": 2.5};</script>`

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	f := x.Property

	if f.Price == nil || f.Price.Confidence != TierStructured {
		t.Errorf("JSON-keyed price should score %d", TierStructured)
	}
	if f.Bathrooms == nil || f.Bathrooms.Value != 2.5 {
		t.Error("fractional bathrooms from JSON not extracted")
	}
}

func TestSiteAdapter_JSONLD(t *testing.T) {
	body := `<html><head><script type="application/ld+json">{
		"@type": "SingleFamilyResidence",
		"name": "Charming bungalow",
		"description": "A beautifully updated three bedroom home close to downtown with a large fenced yard.",
		"yearBuilt": 1952,
		"address": {"streetAddress": "123 Main St", "addressLocality": "Austin", "addressRegion": "TX", "postalCode": "78701"},
		"offers": {"price": 450000}
	}</script></head></html>`

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	f := x.Property

	if f.Address == nil || f.Address.Value != "123 Main St, Austin, TX, 78701" {
		t.Errorf("address from JSON-LD = %v", f.Address)
	}
	if f.Address.Confidence != TierStructured {
		t.Errorf("JSON-LD address confidence = %d, want %d", f.Address.Confidence, TierStructured)
	}
	if f.Price == nil || f.Price.Value != "$450,000" {
		t.Errorf("price from JSON-LD offers = %v", f.Price)
	}
	if f.YearBuilt == nil || f.YearBuilt.Value != 1952 {
		t.Errorf("yearBuilt = %v, want 1952", f.YearBuilt)
	}
	if f.Description == nil || f.Description.NeedsReview {
		t.Error("structured description must not need review")
	}
}

func TestSiteAdapter_NumericBoundsDiscard(t *testing.T) {
	// Values outside plausible bounds are discarded, never clamped.
	body := `<div>450000 bd</div><div>Built in 1492</div><div>250,000 sqft</div>`

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	f := x.Property

	if f.Bedrooms != nil {
		t.Errorf("bedrooms = %d, want discarded (out of bounds)", f.Bedrooms.Value)
	}
	if f.YearBuilt != nil {
		t.Errorf("year = %d, want discarded", f.YearBuilt.Value)
	}
	if f.Area != nil {
		t.Errorf("area = %d, want discarded", f.Area.Value)
	}
}

func TestSiteAdapter_YearBoundTracksCalendar(t *testing.T) {
	next := time.Now().Year() + 1

	// New construction may list next year's completion date.
	body := fmt.Sprintf(`<div>Built in %d</div>`, next)
	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	if x.Property.YearBuilt == nil || x.Property.YearBuilt.Value != next {
		t.Errorf("yearBuilt = %v, want %d accepted", x.Property.YearBuilt, next)
	}

	// Anything further out is noise, not a build year.
	body = fmt.Sprintf(`<div>Built in %d</div>`, next+1)
	x, _ = siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	if x.Property.YearBuilt != nil {
		t.Errorf("yearBuilt = %d, want far-future year discarded", x.Property.YearBuilt.Value)
	}
}

func TestSiteAdapter_BoundsSkipToNextMatch(t *testing.T) {
	// An implausible first match must not mask a plausible later one.
	body := `<div>99 bd promo code</div><div>3 bd</div>`

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	if x.Property.Bedrooms == nil || x.Property.Bedrooms.Value != 3 {
		t.Error("plausible later match should survive an implausible first one")
	}
}

func TestSiteAdapter_PhotoCapAndDedupe(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<img src="https://photos.zillowstatic.com/fp/photo-%d.jpg">`, i)
	}
	for i := 0; i < 5; i++ {
		b.WriteString(`<img src="https://photos.zillowstatic.com/fp/photo-0.jpg">`)
	}

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(b.String()), classify.KindListing)
	f := x.Property

	if f.Photos == nil {
		t.Fatal("photos not extracted")
	}
	if len(f.Photos.Value) > PhotoCap {
		t.Errorf("len(photos) = %d, want <= %d", len(f.Photos.Value), PhotoCap)
	}
	seen := make(map[string]struct{})
	for _, u := range f.Photos.Value {
		if _, dup := seen[u]; dup {
			t.Errorf("duplicate photo URL %s", u)
		}
		seen[u] = struct{}{}
	}
	// First-seen order.
	if f.Photos.Value[0] != "https://photos.zillowstatic.com/fp/photo-0.jpg" {
		t.Errorf("photos[0] = %s, want first-seen URL", f.Photos.Value[0])
	}
}

func TestSiteAdapter_PhotoExclusions(t *testing.T) {
	body := `<img src="https://photos.zillowstatic.com/fp/logo-small.jpg">
		<img src="https://photos.zillowstatic.com/fp/house-front.jpg">`

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindListing)
	f := x.Property
	if f.Photos == nil || len(f.Photos.Value) != 1 {
		t.Fatalf("photos = %v, want just the house photo", f.Photos)
	}
	if !strings.Contains(f.Photos.Value[0], "house-front") {
		t.Errorf("kept photo = %s", f.Photos.Value[0])
	}
}

func TestSiteAdapter_NeighborhoodInferredFromAddress(t *testing.T) {
	body := `<div class="address">456 Maple Ave, Oakland, CA 94601</div><div>$650,000</div>`

	x, _ := siteAdapter(t, classify.FamilyRedfin).Extract(htmlDoc(body), classify.KindListing)
	f := x.Property

	if f.Neighborhood == nil {
		t.Fatal("neighborhood not inferred")
	}
	if f.Neighborhood.Value != "Oakland" {
		t.Errorf("neighborhood = %s, want Oakland", f.Neighborhood.Value)
	}
	if f.Neighborhood.Source != record.SourceInferred {
		t.Errorf("neighborhood source = %s, want inferred", f.Neighborhood.Source)
	}
	if !f.Neighborhood.NeedsReview {
		t.Error("inferred neighborhood must carry the review flag")
	}
}

func TestSiteAdapter_EmptyDocument(t *testing.T) {
	x, err := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc("<html></html>"), classify.KindListing)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if n := x.Property.Count(); n > 1 {
		// The URL slug may still yield an address; nothing else should.
		t.Errorf("empty document yielded %d attributes: %v", n, x.Property.Attributes())
	}
}

func TestSiteAdapter_APIDocumentSource(t *testing.T) {
	doc := htmlDoc(`{"listPrice": 450000, "bedrooms": 3}`)
	doc.Strategy = "api"

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(doc, classify.KindListing)
	if x.Property.Price == nil || x.Property.Price.Source != record.SourceStructuredAPI {
		t.Error("api-strategy documents must yield structured_api provenance")
	}
}

// --- Site Adapter Agent Tests ---

func TestSiteAdapter_AgentProfile(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">{
			"@type": "RealEstateAgent",
			"name": "Jane Smith",
			"jobTitle": "Senior Listing Agent",
			"telephone": "512-555-0100",
			"email": "jane@janesrealty.example",
			"worksFor": {"name": "Jane's Realty Group"}
		}</script>
		<meta property="og:description" content="Top producing agent serving greater Austin.">
	</head><body>
		<p>Jane specializes in luxury homes, condos and waterfront properties.</p>
	</body></html>`

	doc := htmlDoc(body)
	doc.URL = "https://www.zillow.com/profile/jane-smith"
	x, err := siteAdapter(t, classify.FamilyZillow).Extract(doc, classify.KindAgent)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	f := x.Agent

	if f.Name == nil || f.Name.Value != "Jane Smith" {
		t.Fatalf("name = %v, want Jane Smith", f.Name)
	}
	if f.Name.Confidence != TierStructured {
		t.Errorf("structured name confidence = %d, want %d", f.Name.Confidence, TierStructured)
	}
	if f.Phone == nil || f.Phone.Value != "(512) 555-0100" {
		t.Errorf("phone = %v, want normalized (512) 555-0100", f.Phone)
	}
	if f.Email == nil || f.Email.Value != "jane@janesrealty.example" {
		t.Errorf("email = %v", f.Email)
	}
	if f.Company == nil || f.Company.Value != "Jane's Realty Group" {
		t.Errorf("company = %v", f.Company)
	}
	if f.Title == nil || f.Title.Value != "Senior Listing Agent" {
		t.Errorf("title = %v", f.Title)
	}
	if f.Specialties == nil || len(f.Specialties.Value) < 2 {
		t.Errorf("specialties = %v, want the enumerated list", f.Specialties)
	}
}

func TestSiteAdapter_AgentFallbackToTitleTag(t *testing.T) {
	body := `<html><head><title>Jane Smith | Zillow</title></head>
		<body>Call (512) 555-0100 today.</body></html>`

	x, _ := siteAdapter(t, classify.FamilyZillow).Extract(htmlDoc(body), classify.KindAgent)
	f := x.Agent

	if f.Name == nil || f.Name.Value != "Jane Smith" {
		t.Fatalf("name = %v, want Jane Smith from the title tag", f.Name)
	}
	if !f.Name.NeedsReview {
		t.Error("loose-tier name must carry the review flag")
	}
	if f.Phone == nil || f.Phone.Value != "(512) 555-0100" {
		t.Errorf("phone = %v", f.Phone)
	}
}

// --- Generic Adapter Tests ---

func TestGeneric_ConfidenceBand(t *testing.T) {
	body := `<html>
		<div class="address">789 Oak Ln, Tulsa, OK 74101</div>
		<div>$325,000 &middot; 4 beds &middot; 2 baths &middot; 2,200 sqft</div>
		<img src="https://cdn.smallbroker.example/photos/front.jpg">
	</html>`

	g := NewGeneric()
	x, err := g.Extract(htmlDoc(body), classify.KindListing)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	f := x.Property

	checks := []struct {
		name string
		conf int
		ok   bool
	}{
		{"price", confOf(f.Price), f.Price != nil},
		{"address", confOf(f.Address), f.Address != nil},
		{"bedrooms", confOf(f.Bedrooms), f.Bedrooms != nil},
		{"area", confOf(f.Area), f.Area != nil},
		{"photos", confOf(f.Photos), f.Photos != nil},
	}
	for _, c := range checks {
		if !c.ok {
			t.Errorf("%s not extracted", c.name)
			continue
		}
		if c.conf < GenericFloor || c.conf > GenericCeiling {
			t.Errorf("%s confidence = %d, want within [%d, %d]", c.name, c.conf, GenericFloor, GenericCeiling)
		}
	}
}

func confOf[T any](f *record.Field[T]) int {
	if f == nil {
		return 0
	}
	return f.Confidence
}

func TestGeneric_EverythingNeedsReview(t *testing.T) {
	body := `<div>$325,000</div><div>4 beds</div>`
	x, _ := NewGeneric().Extract(htmlDoc(body), classify.KindListing)

	if x.Property.Price == nil || !x.Property.Price.NeedsReview {
		t.Error("generic-band price must need review")
	}
	if x.Property.Bedrooms == nil || !x.Property.Bedrooms.NeedsReview {
		t.Error("generic-band bedrooms must need review")
	}
}

func TestGeneric_AgentCapped(t *testing.T) {
	body := `<script type="application/ld+json">{"name": "Bob Jones", "telephone": "918-555-0142"}</script>`
	x, _ := NewGeneric().Extract(htmlDoc(body), classify.KindAgent)
	f := x.Agent

	if f.Name == nil {
		t.Fatal("name not extracted")
	}
	if f.Name.Confidence > GenericCeiling {
		t.Errorf("generic name confidence = %d, want <= %d even for structured data", f.Name.Confidence, GenericCeiling)
	}
	if !f.Name.NeedsReview {
		t.Error("capped generic fields must need review")
	}
}

// --- Sufficiency Tests ---

func TestSufficient(t *testing.T) {
	full := Extraction{Property: record.PropertyFields{
		Address:  record.Scraped("123 Main St", 90),
		Price:    record.Scraped("$450,000", 75),
		Bedrooms: record.Scraped(3, 75),
	}}
	if !Sufficient(full, classify.KindListing) {
		t.Error("address+price+bedrooms must be sufficient")
	}

	noNumeric := Extraction{Property: record.PropertyFields{
		Address: record.Scraped("123 Main St", 90),
		Price:   record.Scraped("$450,000", 75),
	}}
	if Sufficient(noNumeric, classify.KindListing) {
		t.Error("missing every numeric attribute must be insufficient")
	}

	agent := Extraction{Agent: record.AgentFields{Name: record.Scraped("Jane", 90)}}
	if !Sufficient(agent, classify.KindAgent) {
		t.Error("an agent extraction with a name must be sufficient")
	}
	if Sufficient(Extraction{}, classify.KindAgent) {
		t.Error("an empty agent extraction must be insufficient")
	}
}

// --- Price Formatting Tests ---

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{450000, "$450,000"},
		{1250000, "$1,250,000"},
		{85000, "$85,000"},
	}
	for _, tt := range tests {
		if got := formatPrice(tt.in); got != tt.want {
			t.Errorf("formatPrice(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
