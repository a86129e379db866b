package canon

import "strings"

// FullAddress composes an Australian display address such as
// "12 Ocean St, Bondi NSW 2026". Blank parts are skipped.
func FullAddress(street, suburb, state, postcode string) string {
	street = collapseSpaces(street)
	locality := collapseSpaces(strings.Join([]string{
		collapseSpaces(suburb),
		State(state),
		strings.TrimSpace(postcode),
	}, " "))
	switch {
	case street == "":
		return locality
	case locality == "":
		return street
	default:
		return street + ", " + locality
	}
}

// State maps a state or territory name to its postal abbreviation; unknown
// values are returned trimmed and upper-cased.
func State(s string) string {
	st := collapseSpaces(strings.ToUpper(strings.TrimSpace(s)))
	if v, ok := states[st]; ok {
		return v
	}
	return st
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var states = map[string]string{
	"NEW SOUTH WALES":              "NSW",
	"VICTORIA":                     "VIC",
	"QUEENSLAND":                   "QLD",
	"SOUTH AUSTRALIA":              "SA",
	"WESTERN AUSTRALIA":            "WA",
	"TASMANIA":                     "TAS",
	"NORTHERN TERRITORY":           "NT",
	"AUSTRALIAN CAPITAL TERRITORY": "ACT",
}
