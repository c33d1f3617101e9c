package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Plausibility bounds for numeric attributes. Matches outside the bounds
// are discarded, never clamped: a price picked up by a bedroom pattern
// must not survive as a 450000-bedroom listing.
const (
	bedroomMin, bedroomMax = 0, 20 // exclusive
	bathMin, bathMax       = 0.0, 20.0
	areaMin, areaMax       = 0, 100000
	yearMin                = 1800
	priceMin, priceMax     = 50000, 50000000
)

// Listings legitimately advertise next year's new construction, but no
// further out than that.
var yearMax = time.Now().Year() + 1

// rule is one tiered extraction pattern. The first capture group carries
// the value; tier is the confidence assigned on match.
type rule struct {
	re   *regexp.Regexp
	tier int
}

// firstInt runs tiered rules over the body and returns the first capture
// that parses to an int inside (min, max) exclusive, along with the
// matching rule's tier.
func firstInt(body string, rules []rule, min, max int) (int, int, bool) {
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(body, 20) {
			n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
			if err != nil {
				continue
			}
			if n > min && n < max {
				return n, r.tier, true
			}
		}
	}
	return 0, 0, false
}

// firstFloat is firstInt for fractional attributes (bathrooms).
func firstFloat(body string, rules []rule, min, max float64) (float64, int, bool) {
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(body, 20) {
			f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			if f > min && f < max {
				return f, r.tier, true
			}
		}
	}
	return 0, 0, false
}

// firstString returns the first non-empty trimmed capture across tiered
// rules.
func firstString(body string, rules []rule) (string, int, bool) {
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(body); m != nil {
			v := strings.TrimSpace(m[1])
			if v != "" {
				return v, r.tier, true
			}
		}
	}
	return "", 0, false
}

// firstPrice scans tiered rules for a dollar amount within plausible
// listing bounds and normalizes it to "$1,234,567" form.
func firstPrice(body string, rules []rule) (string, int, bool) {
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(body, 50) {
			n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimPrefix(m[1], "$"), ",", ""))
			if err != nil {
				continue
			}
			if n > priceMin && n < priceMax {
				return formatPrice(n), r.tier, true
			}
		}
	}
	return "", 0, false
}

// formatPrice renders an integer dollar amount with thousands separators.
func formatPrice(n int) string {
	return "$" + humanize.Comma(int64(n))
}
