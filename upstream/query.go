package upstream

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/yourorg/listings-gateway/listing"
)

// DefaultStatus is sent when the caller asks for no particular status: every
// listing still on the market.
const DefaultStatus = listing.StatusListing + "," + listing.StatusConditional + "," + listing.StatusUnconditional

const DefaultPageSize = 50

// ListingFilter is the client-facing search filter. Numeric fields hold the
// caller's text verbatim; the upstream validates them.
type ListingFilter struct {
	Status       string // comma-joined
	PropertyType string
	MinPrice     string
	MaxPrice     string
	MinBedrooms  string
	MinBathrooms string
	Suburb       string
	Page         string
	PageSize     string
	Published    *bool
	Sort         string
	SortOrder    string
}

// Translate maps f onto upstream query parameters, filling the status, page
// size and published defaults. Empty optional fields are never sent.
func Translate(f ListingFilter) url.Values {
	q := url.Values{}
	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = DefaultStatus
	}
	q.Set("status", status)

	pageSize := strings.TrimSpace(f.PageSize)
	if pageSize == "" {
		pageSize = strconv.Itoa(DefaultPageSize)
	}
	q.Set("pagesize", pageSize)

	published := true
	if f.Published != nil {
		published = *f.Published
	}
	q.Set("published", strconv.FormatBool(published))

	setIf(q, "propertyType", f.PropertyType)
	setIf(q, "minPrice", f.MinPrice)
	setIf(q, "maxPrice", f.MaxPrice)
	setIf(q, "minBedrooms", f.MinBedrooms)
	setIf(q, "minBathrooms", f.MinBathrooms)
	setIf(q, "suburb", f.Suburb)
	setIf(q, "page", f.Page)
	setIf(q, "sort", f.Sort)
	setIf(q, "sortOrder", f.SortOrder)
	return q
}

// PageSize reads the page size back out of a translated query, falling back
// to DefaultPageSize when the caller's value is not a positive integer.
func PageSize(q url.Values) int {
	for _, key := range []string{"pagesize", "limit", "pageSize"} {
		if n, err := strconv.Atoi(q.Get(key)); err == nil && n > 0 {
			return n
		}
	}
	return DefaultPageSize
}

// ParseFilter reads the client-facing query of /listings/sale. The page size
// arrives as limit; status may be comma-joined or repeated.
func ParseFilter(q url.Values) ListingFilter {
	f := ListingFilter{
		Status:       joinStatus(q["status"]),
		PropertyType: strings.TrimSpace(q.Get("propertyType")),
		MinPrice:     strings.TrimSpace(q.Get("minPrice")),
		MaxPrice:     strings.TrimSpace(q.Get("maxPrice")),
		MinBedrooms:  strings.TrimSpace(q.Get("minBedrooms")),
		MinBathrooms: strings.TrimSpace(q.Get("minBathrooms")),
		Suburb:       strings.TrimSpace(q.Get("suburb")),
		Page:         strings.TrimSpace(q.Get("page")),
		PageSize:     strings.TrimSpace(firstNonEmpty(q.Get("limit"), q.Get("pageSize"))),
		Sort:         strings.TrimSpace(q.Get("sort")),
		SortOrder:    strings.TrimSpace(q.Get("sortOrder")),
	}
	if v := strings.TrimSpace(q.Get("published")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Published = &b
		}
	}
	return f
}

// Values is the inverse of ParseFilter: the client-facing query for f.
func (f ListingFilter) Values() url.Values {
	q := url.Values{}
	setIf(q, "status", f.Status)
	setIf(q, "propertyType", f.PropertyType)
	setIf(q, "minPrice", f.MinPrice)
	setIf(q, "maxPrice", f.MaxPrice)
	setIf(q, "minBedrooms", f.MinBedrooms)
	setIf(q, "minBathrooms", f.MinBathrooms)
	setIf(q, "suburb", f.Suburb)
	setIf(q, "page", f.Page)
	setIf(q, "limit", f.PageSize)
	setIf(q, "sort", f.Sort)
	setIf(q, "sortOrder", f.SortOrder)
	if f.Published != nil {
		q.Set("published", strconv.FormatBool(*f.Published))
	}
	return q
}

func joinStatus(vals []string) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}
	return strings.Join(parts, ",")
}

func setIf(q url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		q.Set(key, val)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
