package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageMeta is the structured metadata lifted from a parsed HTML document:
// JSON-LD blocks and OpenGraph/standard meta tags. Everything here scores
// TierStructured when used.
type pageMeta struct {
	// From JSON-LD
	Name        string
	Address     string
	Price       string
	Description string
	JobTitle    string
	Telephone   string
	Email       string
	Company     string
	YearBuilt   string
	Images      []string

	// From meta tags
	MetaTitle       string
	MetaDescription string
	MetaImage       string
	MetaURL         string
}

// parseMeta extracts JSON-LD and meta-tag metadata from an HTML body.
// A body that is not HTML (e.g. a structured-API JSON payload) yields an
// empty result; the regex tiers still run against it.
func parseMeta(body string) pageMeta {
	var meta pageMeta

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return meta
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return
		}
		walkJSONLD(raw, &meta)
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return
		}
		name, _ := s.Attr("name")
		prop, _ := s.Attr("property")
		switch {
		case prop == "og:title":
			meta.MetaTitle = content
		case prop == "og:description" || name == "description":
			if meta.MetaDescription == "" {
				meta.MetaDescription = content
			}
		case prop == "og:image":
			meta.MetaImage = content
		case prop == "og:url":
			meta.MetaURL = content
		}
	})

	return meta
}

// walkJSONLD pulls recognized properties out of a decoded JSON-LD value,
// descending into arrays and @graph containers.
func walkJSONLD(v any, meta *pageMeta) {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			walkJSONLD(item, meta)
		}
	case map[string]any:
		if graph, ok := node["@graph"]; ok {
			walkJSONLD(graph, meta)
		}

		setIfEmpty(&meta.Name, jsonString(node["name"]))
		setIfEmpty(&meta.Description, jsonString(node["description"]))
		setIfEmpty(&meta.JobTitle, jsonString(node["jobTitle"]))
		setIfEmpty(&meta.Telephone, jsonString(node["telephone"]))
		setIfEmpty(&meta.Email, strings.TrimPrefix(jsonString(node["email"]), "mailto:"))
		setIfEmpty(&meta.YearBuilt, jsonString(node["yearBuilt"]))

		if addr, ok := node["address"].(map[string]any); ok {
			setIfEmpty(&meta.Address, joinAddress(addr))
		} else {
			setIfEmpty(&meta.Address, jsonString(node["address"]))
		}

		if offers, ok := node["offers"].(map[string]any); ok {
			setIfEmpty(&meta.Price, jsonString(offers["price"]))
		}
		setIfEmpty(&meta.Price, jsonString(node["price"]))

		if works, ok := node["worksFor"].(map[string]any); ok {
			setIfEmpty(&meta.Company, jsonString(works["name"]))
		}
		if aff, ok := node["affiliation"].(map[string]any); ok {
			setIfEmpty(&meta.Company, jsonString(aff["name"]))
		}

		switch img := node["image"].(type) {
		case string:
			meta.Images = append(meta.Images, img)
		case []any:
			for _, i := range img {
				if s := jsonString(i); s != "" {
					meta.Images = append(meta.Images, s)
				}
			}
		}
	}
}

// joinAddress flattens a PostalAddress object into one line.
func joinAddress(addr map[string]any) string {
	parts := []string{
		jsonString(addr["streetAddress"]),
		jsonString(addr["addressLocality"]),
		jsonString(addr["addressRegion"]),
		jsonString(addr["postalCode"]),
	}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// jsonString coerces a decoded JSON scalar to a trimmed string.
func jsonString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// featureItems collects short list items from the document body, the way
// listing pages enumerate amenities.
func featureItems(body string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var items []string
	doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) < 3 || len(text) > 80 || strings.Contains(text, "\n") {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		items = append(items, text)
		return len(items) < limit
	})
	return items
}
