package listing

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Shape names the upstream envelope variant a body was decoded as.
type Shape string

const (
	ShapeEmpty        Shape = "empty"
	ShapeArray        Shape = "array"
	ShapeItems        Shape = "items"
	ShapeProperties   Shape = "properties"
	ShapeData         Shape = "data"
	ShapeIndexed      Shape = "indexed"
	ShapeUnrecognized Shape = "unrecognized"
)

// Records is the shape-level decode of a body before any element is
// interpreted. Envelope is the top-level object for keyed shapes.
type Records struct {
	Shape    Shape
	Elements []json.RawMessage
	Envelope map[string]json.RawMessage
}

// body is a decoded top-level JSON value: exactly one of arr or obj is set.
type body struct {
	arr []json.RawMessage
	obj map[string]json.RawMessage
}

type shapeDecoder struct {
	shape  Shape
	decode func(b body) ([]json.RawMessage, bool)
}

// shapeDecoders is tried in order; the first decoder that accepts wins.
// Array-like forms come before keyed ones and items before data.
var shapeDecoders = []shapeDecoder{
	{ShapeArray, decodeBareArray},
	{ShapeItems, keyedArray("items")},
	{ShapeProperties, keyedArray("properties")},
	{ShapeData, keyedArray("data")},
	{ShapeIndexed, decodeIndexedObject},
}

func decodeBareArray(b body) ([]json.RawMessage, bool) {
	if b.arr == nil {
		return nil, false
	}
	return b.arr, true
}

func keyedArray(key string) func(body) ([]json.RawMessage, bool) {
	return func(b body) ([]json.RawMessage, bool) {
		raw, ok := b.obj[key]
		if !ok {
			return nil, false
		}
		var elems []json.RawMessage
		if !isArray(raw) || json.Unmarshal(raw, &elems) != nil {
			return nil, false
		}
		if elems == nil {
			elems = []json.RawMessage{}
		}
		return elems, true
	}
}

// decodeIndexedObject accepts {"0": {...}, "1": {...}}: an array that was
// serialised as a map. Values come back in ascending key order.
func decodeIndexedObject(b body) ([]json.RawMessage, bool) {
	if len(b.obj) == 0 {
		return nil, false
	}
	type entry struct {
		idx int64
		raw json.RawMessage
	}
	entries := make([]entry, 0, len(b.obj))
	for k, v := range b.obj {
		idx, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, false
		}
		entries = append(entries, entry{idx, v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
	out := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out, true
}

// ExtractRecords detects the envelope shape of raw. Null, primitives and
// undecodable input yield ShapeEmpty; objects that match no known shape yield
// ShapeUnrecognized with no elements.
func ExtractRecords(raw []byte) Records {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Records{Shape: ShapeEmpty}
	}
	var b body
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &b.arr); err != nil {
			return Records{Shape: ShapeEmpty}
		}
		if b.arr == nil {
			b.arr = []json.RawMessage{}
		}
	case '{':
		if err := json.Unmarshal(trimmed, &b.obj); err != nil {
			return Records{Shape: ShapeEmpty}
		}
	default:
		return Records{Shape: ShapeEmpty}
	}
	for _, d := range shapeDecoders {
		if elems, ok := d.decode(b); ok {
			rec := Records{Shape: d.shape, Elements: elems}
			if d.shape != ShapeArray && d.shape != ShapeIndexed {
				rec.Envelope = b.obj
			}
			return rec
		}
	}
	return Records{Shape: ShapeUnrecognized, Envelope: b.obj}
}

// Normalize reduces an upstream body of unknown shape to a canonical page.
// It never fails: unknown shapes keep the raw body on Passthrough.
func Normalize(raw []byte) Page {
	rec := ExtractRecords(raw)
	page := emptyPage(rec.Shape)
	for _, el := range rec.Elements {
		if l, ok := decodeListing(el); ok {
			page.Properties = append(page.Properties, l)
		}
	}
	page.TotalItems = len(page.Properties)
	if rec.Shape == ShapeUnrecognized {
		page.Passthrough = append(json.RawMessage(nil), bytes.TrimSpace(raw)...)
	}
	if rec.Envelope != nil && rec.Shape != ShapeUnrecognized {
		page.ReportedTotal = reportedTotal(rec.Envelope)
		if u, ok := rec.Envelope["urls"]; ok && isObject(u) {
			page.URLs = u
		}
	}
	return page
}

// NormalizeOne decodes a single-listing body: a bare object, a one-element
// array, or an object wrapped in data/listing/property. A record without an
// id is not a listing.
func NormalizeOne(raw []byte) (Listing, bool) {
	l, ok := normalizeOne(raw)
	if !ok || l.ID == "" {
		return Listing{}, false
	}
	return l, true
}

func normalizeOne(raw []byte) (Listing, bool) {
	trimmed := bytes.TrimSpace(raw)
	if isArray(trimmed) {
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil || len(elems) == 0 {
			return Listing{}, false
		}
		return decodeListing(elems[0])
	}
	if !isObject(trimmed) {
		return Listing{}, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Listing{}, false
	}
	for _, key := range []string{"data", "listing", "property"} {
		if inner, ok := obj[key]; ok && isObject(inner) {
			return decodeListing(inner)
		}
	}
	return decodeListing(trimmed)
}

// DecodeCategories reads category counts from any recognised shape.
// Entries without a name are skipped.
func DecodeCategories(raw []byte) []Category {
	rec := ExtractRecords(raw)
	elems := rec.Elements
	if rec.Shape == ShapeUnrecognized {
		env := rec.Envelope
		if inner, ok := env["categories"]; ok {
			nested := ExtractRecords(inner)
			elems, env = nested.Elements, nil
			if nested.Shape == ShapeUnrecognized {
				env = nested.Envelope
			}
		}
		if len(elems) == 0 && env != nil {
			if counts, ok := countMap(env); ok {
				return counts
			}
		}
	}
	out := make([]Category, 0, len(elems))
	for _, el := range elems {
		var c struct {
			Name  flexString `json:"name"`
			Label flexString `json:"label"`
			Type  flexString `json:"type"`
			Count flexInt    `json:"count"`
			Total flexInt    `json:"total"`
		}
		if !isObject(el) || json.Unmarshal(el, &c) != nil {
			continue
		}
		name := firstNonEmpty(string(c.Name), string(c.Label), string(c.Type))
		if name == "" {
			continue
		}
		count := c.Count.ptr()
		if count == nil {
			count = c.Total.ptr()
		}
		cat := Category{Name: name}
		if count != nil {
			cat.Count = *count
		}
		out = append(out, cat)
	}
	return out
}

// countMap reads {"House": 12, "Unit": 4} as categories sorted by name.
// Every value must be numeric.
func countMap(env map[string]json.RawMessage) ([]Category, bool) {
	out := make([]Category, 0, len(env))
	for name, raw := range env {
		var n flexInt
		_ = n.UnmarshalJSON(raw)
		v := n.ptr()
		if v == nil || isArray(raw) || isObject(raw) {
			return nil, false
		}
		out = append(out, Category{Name: name, Count: *v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out) > 0
}

// wireListing is the tolerant decode target for one upstream element.
type wireListing struct {
	ID        flexString `json:"id"`
	ListingID flexString `json:"listingId"`
	DocID     flexString `json:"_id"`

	Title          flexString `json:"title"`
	Heading        flexString `json:"heading"`
	Headline       flexString `json:"headline"`
	DisplayAddress flexString `json:"displayAddress"`
	Address        Address    `json:"address"`
	Suburb         NameField  `json:"suburb"`
	PropertyType   NameField  `json:"propertyType"`
	Description    flexString `json:"description"`

	DisplayPrice flexString `json:"displayPrice"`
	SearchPrice  flexNumber `json:"searchPrice"`
	Price        flexNumber `json:"price"`
	PriceText    flexString `json:"priceText"`

	Bedrooms  flexInt `json:"bedrooms"`
	Beds      flexInt `json:"beds"`
	Bathrooms flexInt `json:"bathrooms"`
	Baths     flexInt `json:"baths"`
	CarSpaces flexInt `json:"carSpaces"`
	Parking   flexInt `json:"parking"`

	Images imageList `json:"images"`
	Photos imageList `json:"photos"`
	Media  imageList `json:"media"`

	Status       NameField  `json:"status"`
	ExternalLink flexString `json:"externalLink"`
	Link         flexString `json:"link"`
}

func decodeListing(raw json.RawMessage) (Listing, bool) {
	if !isObject(raw) {
		return Listing{}, false
	}
	var w wireListing
	if err := json.Unmarshal(raw, &w); err != nil {
		return Listing{}, false
	}
	l := Listing{
		ID:             firstNonEmpty(string(w.ID), string(w.ListingID), string(w.DocID)),
		Title:          string(w.Title),
		Heading:        firstNonEmpty(string(w.Heading), string(w.Headline)),
		DisplayAddress: string(w.DisplayAddress),
		Address:        w.Address,
		Suburb:         w.Suburb,
		PropertyType:   w.PropertyType,
		Description:    string(w.Description),
		DisplayPrice:   string(w.DisplayPrice),
		SearchPrice:    w.SearchPrice.ptr(),
		Price:          w.Price.ptr(),
		PriceText:      string(w.PriceText),
		Bedrooms:       firstInt(w.Bedrooms, w.Beds),
		Bathrooms:      firstInt(w.Bathrooms, w.Baths),
		CarSpaces:      firstInt(w.CarSpaces, w.Parking),
		Images:         firstImages(w.Images, w.Photos, w.Media),
		Status:         w.Status.Name,
		ExternalLink:   firstNonEmpty(string(w.ExternalLink), string(w.Link)),
	}
	l.PriceLabel = l.ResolvePrice()
	return l, true
}

func reportedTotal(env map[string]json.RawMessage) int {
	for _, key := range []string{"totalItems", "total", "totalCount", "count"} {
		raw, ok := env[key]
		if !ok {
			continue
		}
		var n flexInt
		_ = n.UnmarshalJSON(raw)
		if v := n.ptr(); v != nil {
			return *v
		}
	}
	return 0
}

func firstInt(vals ...flexInt) *int {
	for _, v := range vals {
		if p := v.ptr(); p != nil {
			return p
		}
	}
	return nil
}

func firstImages(lists ...imageList) []Image {
	for _, l := range lists {
		if len(l) > 0 {
			return []Image(l)
		}
	}
	return []Image{}
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
