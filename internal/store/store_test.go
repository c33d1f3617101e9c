package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/listingkit/listingkit/pkg/classify"
	"github.com/listingkit/listingkit/pkg/record"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProperty(url string) *record.PropertyRecord {
	return &record.PropertyRecord{
		URL:    url,
		Family: classify.FamilyZillow,
		Fields: record.PropertyFields{
			Address: record.Scraped("123 Main St, Austin, TX 78701", 90),
			Price:   record.Scraped("$450,000", 75),
		},
		HarvestedAt: time.Now().UTC(),
	}
}

// --- Property Round-Trip Tests ---

func TestSQLite_PropertyRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := sampleProperty("https://www.zillow.com/homedetails/a/1_zpid/")
	if err := s.SaveProperty(ctx, rec); err != nil {
		t.Fatalf("SaveProperty() error = %v", err)
	}

	got, err := s.GetProperty(ctx, rec.URL)
	if err != nil {
		t.Fatalf("GetProperty() error = %v", err)
	}
	if got.URL != rec.URL || got.Family != rec.Family {
		t.Errorf("got %+v", got)
	}
	if got.Fields.Price == nil || got.Fields.Price.Value != "$450,000" {
		t.Error("field envelope lost in round trip")
	}
	if got.Fields.Price.Source != record.SourceScraped || got.Fields.Price.Confidence != 75 {
		t.Error("provenance lost in round trip")
	}
}

func TestSQLite_UpsertReplacesByURL(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	url := "https://www.zillow.com/homedetails/a/1_zpid/"

	first := sampleProperty(url)
	if err := s.SaveProperty(ctx, first); err != nil {
		t.Fatalf("SaveProperty() error = %v", err)
	}

	second := sampleProperty(url)
	second.Fields.Price = record.FromAPI("$460,000", 90)
	if err := s.SaveProperty(ctx, second); err != nil {
		t.Fatalf("SaveProperty() error = %v", err)
	}

	got, err := s.GetProperty(ctx, url)
	if err != nil {
		t.Fatalf("GetProperty() error = %v", err)
	}
	if got.Fields.Price.Value != "$460,000" {
		t.Errorf("price = %s, want the re-harvested value", got.Fields.Price.Value)
	}

	recs, err := s.ListProperties(ctx)
	if err != nil {
		t.Fatalf("ListProperties() error = %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len = %d, want 1 (upsert, not append)", len(recs))
	}
}

func TestSQLite_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetProperty(context.Background(), "https://example.com/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProperty() error = %v, want ErrNotFound", err)
	}
	_, err = s.GetAgent(context.Background(), "https://example.com/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAgent() error = %v, want ErrNotFound", err)
	}
}

// --- Agent Tests ---

func TestSQLite_AgentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &record.AgentRecord{
		URL:    "https://www.zillow.com/profile/jane-smith",
		Family: classify.FamilyZillow,
		Fields: record.AgentFields{
			Name:  record.Scraped("Jane Smith", 90),
			Phone: record.Scraped("(512) 555-0100", 55),
		},
		HarvestedAt: time.Now().UTC(),
	}
	if err := s.SaveAgent(ctx, rec); err != nil {
		t.Fatalf("SaveAgent() error = %v", err)
	}

	got, err := s.GetAgent(ctx, rec.URL)
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if got.Fields.Name.Value != "Jane Smith" {
		t.Errorf("name = %s", got.Fields.Name.Value)
	}
	if !got.Fields.Phone.NeedsReview {
		t.Error("review flag lost in round trip")
	}

	agents, err := s.ListAgents(ctx)
	if err != nil {
		t.Fatalf("ListAgents() error = %v", err)
	}
	if len(agents) != 1 {
		t.Errorf("len = %d, want 1", len(agents))
	}
}

// --- Listing Order Tests ---

func TestSQLite_ListMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := sampleProperty("https://www.zillow.com/homedetails/old/1_zpid/")
	older.HarvestedAt = time.Now().Add(-time.Hour).UTC()
	newer := sampleProperty("https://www.zillow.com/homedetails/new/2_zpid/")

	if err := s.SaveProperty(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveProperty(ctx, newer); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListProperties(ctx)
	if err != nil {
		t.Fatalf("ListProperties() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].URL != newer.URL {
		t.Errorf("recs[0] = %s, want the most recent record first", recs[0].URL)
	}
}
