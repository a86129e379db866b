package upstream

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints are the upstream paths, relative to the provider base URL.
// Detail holds a single %s for the escaped listing id.
type Endpoints struct {
	Search     string
	Detail     string
	Categories string
	Status     string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Search:     "/listings/sale",
		Detail:     "/listings/%s",
		Categories: "/listings/categories",
		Status:     "/status",
	}
}

func (e Endpoints) DetailPath(id string) string {
	if !strings.Contains(e.Detail, "%s") {
		return strings.TrimRight(e.Detail, "/") + "/" + url.PathEscape(id)
	}
	return fmt.Sprintf(e.Detail, url.PathEscape(id))
}
