package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrFloat(v float64) *float64 { return &v }

func TestResolvePrice(t *testing.T) {
	tests := []struct {
		name string
		l    Listing
		want string
	}{
		{"display wins", Listing{DisplayPrice: "Auction", SearchPrice: ptrFloat(1), Price: ptrFloat(2), PriceText: "t"}, "Auction"},
		{"search price before price", Listing{SearchPrice: ptrFloat(900000), Price: ptrFloat(850000)}, "$900,000"},
		{"price before price text", Listing{Price: ptrFloat(850000), PriceText: "Offers over $800k"}, "$850,000"},
		{"price text only", Listing{PriceText: "Contact agent"}, "Contact agent"},
		{"nothing", Listing{}, PriceOnApplication},
		{"blank display skipped", Listing{DisplayPrice: "  ", PriceText: "EOI"}, "EOI"},
		{"zero price skipped", Listing{Price: ptrFloat(0), PriceText: "EOI"}, "EOI"},
		{"fractional", Listing{Price: ptrFloat(1234.5)}, "$1,234.5"},
		{"beyond int64", Listing{Price: ptrFloat(1e19)}, "$10,000,000,000,000,000,000"},
		{"near int64 max", Listing{Price: ptrFloat(9e18)}, "$9,000,000,000,000,000,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.l.ResolvePrice())
		})
	}
}

func TestNormalizeSetsPriceLabel(t *testing.T) {
	page := Normalize([]byte(`[{"id":"1","price":650000,"priceText":"Offers"},{"id":"2","priceText":"Offers"},{"id":"3"}]`))
	assert.Equal(t, "$650,000", page.Properties[0].PriceLabel)
	assert.Equal(t, "Offers", page.Properties[1].PriceLabel)
	assert.Equal(t, "Price on application", page.Properties[2].PriceLabel)
}
