package listing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, body string) Listing {
	t.Helper()
	l, ok := decodeListing(json.RawMessage(body))
	require.True(t, ok)
	return l
}

func TestDecodeListingAddressForms(t *testing.T) {
	structured := decodeOne(t, `{"id":"1","address":{"street":"12 Ocean St","suburb":{"name":"Bondi"},"state":"NSW","postcode":2026}}`)
	assert.True(t, structured.Address.Structured())
	assert.Equal(t, "12 Ocean St", structured.Address.Street)
	assert.Equal(t, "Bondi", structured.Address.Suburb.Name)
	assert.True(t, structured.Address.Suburb.Object)
	assert.Equal(t, "2026", structured.Address.Postcode)

	split := decodeOne(t, `{"address":{"streetNumber":"4","streetName":"Mall Rd","suburb":"Leura"}}`)
	assert.Equal(t, "4 Mall Rd", split.Address.Street)
	assert.False(t, split.Address.Suburb.Object)

	text := decodeOne(t, `{"id":"2","address":"7 High St, Fitzroy VIC 3065"}`)
	assert.False(t, text.Address.Structured())
	assert.Equal(t, "7 High St, Fitzroy VIC 3065", text.Address.Text)
}

func TestDecodeListingToleratesWrongTypes(t *testing.T) {
	l := decodeOne(t, `{"id":{"nested":true},"listingId":55,"title":["x"],"bedrooms":"3","bathrooms":-1,"beds":2,"images":"none","price":"$1,250,000"}`)
	assert.Equal(t, "55", l.ID)
	assert.Empty(t, l.Title)
	require.NotNil(t, l.Bedrooms)
	assert.Equal(t, 3, *l.Bedrooms)
	assert.Nil(t, l.Bathrooms)
	assert.Equal(t, []Image{}, l.Images)
	require.NotNil(t, l.Price)
	assert.Equal(t, 1250000.0, *l.Price)
}

func TestDecodeListingImages(t *testing.T) {
	l := decodeOne(t, `{"images":["//cdn.example.com/a.jpg",{"id":"img2","href":"http://cdn.example.com/b.jpg"},{"id":"blank"}]}`)
	assert.Equal(t, []Image{
		{ID: "0", URL: "https://cdn.example.com/a.jpg"},
		{ID: "img2", URL: "https://cdn.example.com/b.jpg"},
	}, l.Images)

	photos := decodeOne(t, `{"photos":[{"url":"https://cdn.example.com/p.jpg"}]}`)
	require.Len(t, photos.Images, 1)
	assert.Equal(t, "https://cdn.example.com/p.jpg", photos.Images[0].URL)

	first := decodeOne(t, `{"images":[],"media":[{"src":"https://cdn.example.com/m.jpg","id":9}]}`)
	assert.Equal(t, []Image{{ID: "9", URL: "https://cdn.example.com/m.jpg"}}, first.Images)
}

func TestDecodeListingAlternateKeys(t *testing.T) {
	l := decodeOne(t, `{"_id":"doc-1","headline":"Views","propertyType":{"name":"House"},"status":{"name":"listing"},"link":"https://example.com/l/1","parking":2}`)
	assert.Equal(t, "doc-1", l.ID)
	assert.Equal(t, "Views", l.Heading)
	assert.Equal(t, "House", l.PropertyType.Name)
	assert.Equal(t, "listing", l.Status)
	assert.Equal(t, "https://example.com/l/1", l.ExternalLink)
	require.NotNil(t, l.CarSpaces)
	assert.Equal(t, 2, *l.CarSpaces)
}

func TestNameFieldRoundTrip(t *testing.T) {
	for _, in := range []string{`"Bondi"`, `{"name":"Bondi"}`} {
		var f NameField
		require.NoError(t, json.Unmarshal([]byte(in), &f))
		assert.Equal(t, "Bondi", f.Name)
		out, err := json.Marshal(f)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	}
}

func TestAddressMarshal(t *testing.T) {
	b, err := json.Marshal(Address{Text: "1 Main Rd"})
	require.NoError(t, err)
	assert.JSONEq(t, `"1 Main Rd"`, string(b))

	b, err = json.Marshal(Address{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(Address{Street: "1 Main Rd", Suburb: NameField{Name: "Leura"}, State: "NSW"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"street":"1 Main Rd","suburb":"Leura","state":"NSW"}`, string(b))
}
