package extract

import (
	"regexp"
	"strings"
)

// anyImageURL matches image URLs regardless of host, used by the generic
// adapter and as a site-adapter fallback for families without a known
// media host.
var anyImageURL = regexp.MustCompile(`https://[^"'\s\\<>]+\.(?:jpe?g|png|webp)`)

// Filename keywords marking obvious non-property assets.
var photoExclusions = []string{
	"logo", "badge", "avatar", "icon", "placeholder",
	"footer", "app-store", "google-play", "sprite",
}

// collectPhotos gathers image URLs matching the given host patterns,
// drops assets whose filename suggests site chrome rather than the
// property, deduplicates preserving first-seen order, and truncates to
// the cap.
func collectPhotos(body string, hosts []*regexp.Regexp, limit int) []string {
	if len(hosts) == 0 {
		hosts = []*regexp.Regexp{anyImageURL}
	}

	seen := make(map[string]struct{})
	var photos []string
	for _, host := range hosts {
		for _, u := range host.FindAllString(body, -1) {
			if _, dup := seen[u]; dup {
				continue
			}
			if excludedPhoto(u) {
				continue
			}
			seen[u] = struct{}{}
			photos = append(photos, u)
			if len(photos) >= limit {
				return photos
			}
		}
	}
	return photos
}

func excludedPhoto(u string) bool {
	lower := strings.ToLower(u)
	for _, kw := range photoExclusions {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
