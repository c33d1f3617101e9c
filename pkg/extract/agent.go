package extract

import (
	"regexp"
	"strings"

	"github.com/listingkit/listingkit/pkg/fetch"
	"github.com/listingkit/listingkit/pkg/record"
)

var (
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]?\d{4}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	specialtiesPattern  = regexp.MustCompile(`(?i)specializ(?:es|ing)\s+in\s+([^<.]{5,160})`)
	serviceAreasPattern = regexp.MustCompile(`(?i)serv(?:ing|es)\s+(?:the\s+)?([^<.]{5,160})`)
	nameFromTitle       = regexp.MustCompile(`<title>\s*([^<|,\-]{3,60})`)
)

// extractAgent pulls agent-profile attributes out of a document. All site
// families share this logic; profile pages carry far less per-site markup
// variance than listing pages do.
func extractAgent(doc fetch.Document) record.AgentFields {
	var f record.AgentFields
	body := doc.Body
	meta := parseMeta(body)

	switch {
	case meta.Name != "":
		f.Name = newField(doc, meta.Name, TierStructured)
	case meta.MetaTitle != "":
		if name := trimAgentName(meta.MetaTitle); name != "" {
			f.Name = newField(doc, name, TierLabeled)
		}
	default:
		if m := nameFromTitle.FindStringSubmatch(body); m != nil {
			if name := trimAgentName(m[1]); name != "" {
				f.Name = newField(doc, name, TierLoose)
			}
		}
	}

	if meta.Company != "" {
		f.Company = newField(doc, meta.Company, TierStructured)
	} else if v, tier, ok := firstString(body, agentCompanyRules); ok {
		f.Company = newField(doc, v, tier)
	}

	if meta.JobTitle != "" {
		f.Title = newField(doc, meta.JobTitle, TierStructured)
	}

	if meta.Description != "" {
		f.Bio = newField(doc, meta.Description, TierStructured)
	} else if meta.MetaDescription != "" {
		f.Bio = newField(doc, meta.MetaDescription, TierLabeled)
	}

	if meta.Telephone != "" {
		f.Phone = newField(doc, normalizePhone(meta.Telephone), TierStructured)
	} else if m := phonePattern.FindString(body); m != "" {
		f.Phone = newField(doc, normalizePhone(m), TierLoose)
	}

	if meta.Email != "" {
		f.Email = newField(doc, meta.Email, TierStructured)
	} else if m := emailPattern.FindString(body); m != "" && !strings.HasSuffix(m, ".png") && !strings.HasSuffix(m, ".jpg") {
		f.Email = newField(doc, m, TierLoose)
	}

	if m := specialtiesPattern.FindStringSubmatch(body); m != nil {
		f.Specialties = newField(doc, splitList(m[1]), TierLoose)
	}
	if m := serviceAreasPattern.FindStringSubmatch(body); m != nil {
		f.ServiceAreas = newField(doc, splitList(m[1]), TierLoose)
	}

	if meta.MetaURL != "" {
		f.Website = newField(doc, meta.MetaURL, TierLabeled)
	} else {
		f.Website = record.Inferred(doc.URL, TierLoose)
	}

	if len(meta.Images) > 0 {
		f.Photo = newField(doc, meta.Images[0], TierStructured)
	} else if meta.MetaImage != "" {
		f.Photo = newField(doc, meta.MetaImage, TierLabeled)
	}

	return f
}

// trimAgentName strips the site-name suffix real-estate profile titles
// carry ("Jane Smith | Zillow", "Jane Smith - Realtor.com").
func trimAgentName(title string) string {
	for _, sep := range []string{"|", " - ", " – ", ","} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	name := strings.TrimSpace(title)
	if len(name) < 3 || len(name) > 60 {
		return ""
	}
	return name
}

// normalizePhone reduces a phone match to (NNN) NNN-NNNN when it carries
// exactly ten digits, else returns the trimmed original.
func normalizePhone(s string) string {
	var digits []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) != 10 {
		return strings.TrimSpace(s)
	}
	return "(" + string(digits[:3]) + ") " + string(digits[3:6]) + "-" + string(digits[6:])
}

// splitList breaks a prose enumeration ("luxury homes, condos and
// waterfront") into trimmed items.
func splitList(s string) []string {
	s = strings.ReplaceAll(s, " and ", ",")
	s = strings.ReplaceAll(s, " & ", ",")
	var items []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
