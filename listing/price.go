package listing

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// PriceOnApplication is shown when a listing carries no usable price.
const PriceOnApplication = "Price on application"

// ResolvePrice renders the listing price using the fixed precedence
// displayPrice > searchPrice > price > priceText > PriceOnApplication.
// Non-positive numbers count as absent.
func (l Listing) ResolvePrice() string {
	if s := strings.TrimSpace(l.DisplayPrice); s != "" {
		return s
	}
	if l.SearchPrice != nil && *l.SearchPrice > 0 {
		return formatAUD(*l.SearchPrice)
	}
	if l.Price != nil && *l.Price > 0 {
		return formatAUD(*l.Price)
	}
	if s := strings.TrimSpace(l.PriceText); s != "" {
		return s
	}
	return PriceOnApplication
}

func formatAUD(v float64) string {
	switch {
	case v != math.Trunc(v):
		return "$" + humanize.CommafWithDigits(v, 2)
	case v < math.MaxInt64:
		return "$" + humanize.Comma(int64(v))
	default:
		// Beyond int64; Commaf prints whole floats without a fraction.
		return "$" + humanize.Commaf(v)
	}
}
