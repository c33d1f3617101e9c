package fetch

import "strings"

// blockSignals are markers of anti-automation interstitials. A body
// containing any of them is treated as a failed fetch even when the HTTP
// status was 200.
var blockSignals = []string{
	"captcha",
	"are you a robot",
	"robot check",
	"verify you are human",
	"access denied",
	"access to this page has been denied",
	"pardon our interruption",
	"unusual traffic",
	"attention required",
	"request blocked",
	"px-captcha",
	"cf-browser-verification",
	"cf-challenge",
	"403 forbidden",
}

// Blocked reports whether a response body looks like a soft block page.
// Real listing pages are large; block interstitials are small, so only the
// head of the body is scanned to keep this cheap on multi-megabyte pages.
func Blocked(body string) bool {
	const scanLimit = 64 * 1024
	s := body
	if len(s) > scanLimit {
		s = s[:scanLimit]
	}
	s = strings.ToLower(s)
	for _, sig := range blockSignals {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return false
}
