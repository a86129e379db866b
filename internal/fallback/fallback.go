// Package fallback serves the fixed sample dataset used when live listing
// data cannot be obtained.
package fallback

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yourorg/listings-gateway/listing"
)

//go:embed data/sample.yaml
var sampleYAML []byte

type sampleAddress struct {
	Street   string `yaml:"street"`
	Suburb   string `yaml:"suburb"`
	State    string `yaml:"state"`
	Postcode string `yaml:"postcode"`
}

type sampleImage struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
}

type sampleListing struct {
	ID           string        `yaml:"id"`
	Heading      string        `yaml:"heading"`
	Title        string        `yaml:"title"`
	Address      sampleAddress `yaml:"address"`
	PropertyType string        `yaml:"propertyType"`
	Description  string        `yaml:"description"`
	DisplayPrice string        `yaml:"displayPrice"`
	SearchPrice  *float64      `yaml:"searchPrice"`
	Price        *float64      `yaml:"price"`
	PriceText    string        `yaml:"priceText"`
	Bedrooms     *int          `yaml:"bedrooms"`
	Bathrooms    *int          `yaml:"bathrooms"`
	CarSpaces    *int          `yaml:"carSpaces"`
	Status       string        `yaml:"status"`
	Images       []sampleImage `yaml:"images"`
	ExternalLink string        `yaml:"externalLink"`
}

type sampleSet struct {
	Listings   []sampleListing    `yaml:"listings"`
	Categories []listing.Category `yaml:"categories"`
}

var dataset = mustLoad(sampleYAML)

func mustLoad(b []byte) sampleSet {
	var set sampleSet
	if err := yaml.Unmarshal(b, &set); err != nil {
		panic(fmt.Sprintf("fallback: decode sample dataset: %v", err))
	}
	if len(set.Listings) == 0 || len(set.Categories) == 0 {
		panic("fallback: sample dataset is empty")
	}
	return set
}

func (s sampleListing) toListing() listing.Listing {
	l := listing.Listing{
		ID:      s.ID,
		Title:   s.Title,
		Heading: s.Heading,
		Address: listing.Address{
			Street:   s.Address.Street,
			Suburb:   listing.NameField{Name: s.Address.Suburb},
			State:    s.Address.State,
			Postcode: s.Address.Postcode,
		},
		Suburb:       listing.NameField{Name: s.Address.Suburb},
		PropertyType: listing.NameField{Name: s.PropertyType},
		Description:  s.Description,
		DisplayPrice: s.DisplayPrice,
		SearchPrice:  copyFloat(s.SearchPrice),
		Price:        copyFloat(s.Price),
		PriceText:    s.PriceText,
		Bedrooms:     copyInt(s.Bedrooms),
		Bathrooms:    copyInt(s.Bathrooms),
		CarSpaces:    copyInt(s.CarSpaces),
		Images:       make([]listing.Image, 0, len(s.Images)),
		Status:       s.Status,
		ExternalLink: s.ExternalLink,
	}
	for _, img := range s.Images {
		l.Images = append(l.Images, listing.Image{ID: img.ID, URL: img.URL})
	}
	l.PriceLabel = l.ResolvePrice()
	return l
}

// Listings returns a fresh copy of the sample page.
func Listings() listing.Page {
	out := make([]listing.Listing, 0, len(dataset.Listings))
	for _, s := range dataset.Listings {
		out = append(out, s.toListing())
	}
	return listing.Page{
		Properties: out,
		TotalItems: len(out),
		TotalPages: 1,
		Shape:      listing.ShapeProperties,
	}
}

func ListingByID(id string) (listing.Listing, bool) {
	for _, s := range dataset.Listings {
		if s.ID == id {
			return s.toListing(), true
		}
	}
	return listing.Listing{}, false
}

// Categories returns a copy of the four sample categories.
func Categories() []listing.Category {
	return append([]listing.Category(nil), dataset.Categories...)
}

// StatusReport is the body of the status endpoint.
type StatusReport struct {
	Connected  bool   `json:"connected"`
	StatusCode int    `json:"status,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Upstream   any    `json:"upstream,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`
}

// Status is the report served when the upstream cannot be probed.
func Status(reason string) StatusReport {
	return StatusReport{Connected: false, Reason: reason, Fallback: true}
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
