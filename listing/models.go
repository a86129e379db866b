package listing

import "encoding/json"

// Status values the upstream uses for listings that are still on the market.
const (
	StatusListing       = "listing"
	StatusConditional   = "conditional"
	StatusUnconditional = "unconditional"
)

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Listing is the canonical listing served to the portal regardless of which
// envelope the upstream used.
type Listing struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	Heading        string    `json:"heading,omitempty"`
	DisplayAddress string    `json:"displayAddress,omitempty"`
	Address        Address   `json:"address"`
	Suburb         NameField `json:"suburb"`
	PropertyType   NameField `json:"propertyType"`
	Description    string    `json:"description,omitempty"`

	DisplayPrice string   `json:"displayPrice,omitempty"`
	SearchPrice  *float64 `json:"searchPrice,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	PriceText    string   `json:"priceText,omitempty"`
	PriceLabel   string   `json:"priceLabel"`

	Bedrooms  *int `json:"bedrooms,omitempty"`
	Bathrooms *int `json:"bathrooms,omitempty"`
	CarSpaces *int `json:"carSpaces,omitempty"`

	Images       []Image `json:"images"`
	Status       string  `json:"status,omitempty"`
	ExternalLink string  `json:"externalLink,omitempty"`
}

// Page is the canonical envelope. TotalItems always equals len(Properties).
type Page struct {
	Properties []Listing       `json:"properties"`
	TotalItems int             `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
	URLs       json.RawMessage `json:"urls,omitempty"`

	// Shape records which upstream variant produced the page.
	Shape Shape `json:"-"`
	// ReportedTotal is the upstream's own total, when it sent one. It is only
	// a pagination hint and never replaces TotalItems.
	ReportedTotal int `json:"-"`
	// Passthrough holds the raw body when Shape is ShapeUnrecognized.
	Passthrough json.RawMessage `json:"-"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Paginate derives TotalPages for the given page size. A plausible upstream
// total (at least as large as what was received) is preferred so the UI can
// page forward; otherwise the visible count is used.
func (p Page) Paginate(pageSize int) Page {
	total := p.TotalItems
	if p.ReportedTotal >= p.TotalItems && p.ReportedTotal > 0 {
		total = p.ReportedTotal
	}
	switch {
	case total == 0:
		p.TotalPages = 0
	case pageSize <= 0:
		p.TotalPages = 1
	default:
		p.TotalPages = (total + pageSize - 1) / pageSize
	}
	return p
}

func emptyPage(shape Shape) Page {
	return Page{Properties: []Listing{}, Shape: shape}
}
