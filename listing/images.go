package listing

import (
	"regexp"
	"strings"
)

var schemeRelative = regexp.MustCompile(`^//[^/]`)

// normaliseImageURL upgrades scheme-relative and plain-http links to https.
func normaliseImageURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return href
	}
	if schemeRelative.MatchString(href) {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") {
		return "https://" + strings.TrimPrefix(href, "http://")
	}
	return href
}
