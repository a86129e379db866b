package listing

import (
	"strings"

	"github.com/yourorg/listings-gateway/internal/canon"
)

// Filter returns the listings on page that match query case-insensitively on
// any of their searchable fields. A blank query returns every listing. It
// only looks at data already on the page.
func Filter(page Page, query string) []Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return page.Properties
	}
	out := make([]Listing, 0, len(page.Properties))
	for _, l := range page.Properties {
		if l.Matches(q) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether the lowered query q is a substring of any
// searchable field of l.
func (l Listing) Matches(q string) bool {
	for _, field := range l.textFields() {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (l Listing) textFields() []string {
	return []string{
		l.DisplayAddress,
		l.Address.Text,
		l.fullAddress(),
		l.Title,
		l.Heading,
		l.Suburb.Name,
		l.Address.Suburb.Name,
		l.PropertyType.Name,
		l.Description,
	}
}

func (l Listing) fullAddress() string {
	a := l.Address
	if a.FullAddress != "" {
		return a.FullAddress
	}
	if !a.Structured() {
		return ""
	}
	return canon.FullAddress(a.Street, a.Suburb.Name, a.State, a.Postcode)
}
