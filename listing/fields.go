package listing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString accepts string or number JSON and stores as string.
// Any other JSON kind decodes to the empty string instead of failing the
// enclosing listing.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*s = ""
			return nil
		}
		*s = flexString(strings.TrimSpace(str))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			*s = ""
			return nil
		}
		*s = flexString(num.String())
	default:
		*s = ""
	}
	return nil
}

// flexNumber accepts a JSON number or a numeric string such as "850000" or
// "$850,000". Anything unparseable leaves it unset.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = flexNumber{}
	var str flexString
	_ = str.UnmarshalJSON(b)
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(string(str))
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	n.value, n.set = f, true
	return nil
}

func (n flexNumber) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

// flexInt is a flexNumber truncated to an int. Negative counts are dropped.
type flexInt struct{ flexNumber }

func (n flexInt) ptr() *int {
	if !n.set || n.value < 0 {
		return nil
	}
	v := int(n.value)
	return &v
}

// NameField is a value the upstream sends either as a plain string or as an
// object carrying a name, e.g. "Bondi" or {"name": "Bondi"}. It re-encodes
// in the form it arrived in.
type NameField struct {
	Name   string
	Object bool
}

func (f *NameField) UnmarshalJSON(b []byte) error {
	*f = NameField{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Name  flexString `json:"name"`
			Label flexString `json:"label"`
			Value flexString `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil
		}
		f.Name = firstNonEmpty(string(obj.Name), string(obj.Label), string(obj.Value))
		f.Object = true
		return nil
	}
	var s flexString
	_ = s.UnmarshalJSON(b)
	f.Name = string(s)
	return nil
}

func (f NameField) MarshalJSON() ([]byte, error) {
	if f.Object {
		return json.Marshal(struct {
			Name string `json:"name"`
		}{f.Name})
	}
	return json.Marshal(f.Name)
}

func (f NameField) IsZero() bool { return f.Name == "" }

// Address is either structured or a single display string. Text is set when
// the upstream sent the string form.
type Address struct {
	Street      string
	Suburb      NameField
	State       string
	Postcode    string
	FullAddress string
	Text        string
}

type addressObject struct {
	Street       flexString `json:"street"`
	StreetNumber flexString `json:"streetNumber"`
	StreetName   flexString `json:"streetName"`
	Suburb       NameField  `json:"suburb"`
	State        flexString `json:"state"`
	Postcode     flexString `json:"postcode"`
	FullAddress  flexString `json:"fullAddress"`
	Display      flexString `json:"displayAddress"`
}

func (a *Address) UnmarshalJSON(b []byte) error {
	*a = Address{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj addressObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil
		}
		street := string(obj.Street)
		if street == "" {
			street = strings.TrimSpace(string(obj.StreetNumber) + " " + string(obj.StreetName))
		}
		a.Street = street
		a.Suburb = obj.Suburb
		a.State = string(obj.State)
		a.Postcode = string(obj.Postcode)
		a.FullAddress = firstNonEmpty(string(obj.FullAddress), string(obj.Display))
		return nil
	}
	var s flexString
	_ = s.UnmarshalJSON(b)
	a.Text = string(s)
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	if a.Structured() {
		out := struct {
			Street      string    `json:"street,omitempty"`
			Suburb      NameField `json:"suburb"`
			State       string    `json:"state,omitempty"`
			Postcode    string    `json:"postcode,omitempty"`
			FullAddress string    `json:"fullAddress,omitempty"`
		}{a.Street, a.Suburb, a.State, a.Postcode, a.FullAddress}
		return json.Marshal(out)
	}
	if a.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(a.Text)
}

// Structured reports whether any structured component is present.
func (a Address) Structured() bool {
	return a.Street != "" || !a.Suburb.IsZero() || a.State != "" || a.Postcode != "" || a.FullAddress != ""
}

// imageList decodes an array whose elements are either URL strings or
// objects with an id and one of url/href/src.
type imageList []Image

func (l *imageList) UnmarshalJSON(b []byte) error {
	*l = nil
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return nil
	}
	out := make([]Image, 0, len(elems))
	for i, el := range elems {
		el = bytes.TrimSpace(el)
		var img Image
		if len(el) > 0 && el[0] == '{' {
			var obj struct {
				ID   flexString `json:"id"`
				URL  flexString `json:"url"`
				Href flexString `json:"href"`
				Src  flexString `json:"src"`
			}
			if err := json.Unmarshal(el, &obj); err != nil {
				continue
			}
			img.ID = string(obj.ID)
			img.URL = firstNonEmpty(string(obj.URL), string(obj.Href), string(obj.Src))
		} else {
			var s flexString
			_ = s.UnmarshalJSON(el)
			img.URL = string(s)
		}
		img.URL = normaliseImageURL(img.URL)
		if img.URL == "" {
			continue
		}
		if img.ID == "" {
			img.ID = strconv.Itoa(i)
		}
		out = append(out, img)
	}
	*l = out
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
