package fallback

import "strings"

// Kind names a gateway endpoint for fallback decisions.
type Kind string

const (
	KindSearch     Kind = "search"
	KindDetail     Kind = "detail"
	KindCategories Kind = "categories"
	KindStatus     Kind = "status"
)

// Policy decides, per endpoint, whether a failure is answered with sample
// data or surfaced to the caller.
type Policy struct {
	enabled map[Kind]bool
}

// DefaultPolicy surfaces failures on search and detail so the portal can tell
// "no results" from "service degraded", and degrades the auxiliary endpoints.
func DefaultPolicy() Policy {
	return Policy{enabled: map[Kind]bool{
		KindCategories: true,
		KindStatus:     true,
	}}
}

// ParsePolicy builds a policy from endpoint names such as
// ["categories", "status"] and returns the names it did not recognise.
// "all" enables every endpoint and "none" disables fallback everywhere. When
// no name is recognised the result is DefaultPolicy.
func ParsePolicy(names []string) (Policy, []string) {
	p := Policy{enabled: map[Kind]bool{}}
	var unknown []string
	explicit := false
	for _, n := range names {
		switch k := Kind(strings.ToLower(strings.TrimSpace(n))); k {
		case "":
		case KindSearch, KindDetail, KindCategories, KindStatus:
			p.enabled[k] = true
			explicit = true
		case "all":
			for _, all := range []Kind{KindSearch, KindDetail, KindCategories, KindStatus} {
				p.enabled[all] = true
			}
			explicit = true
		case "none":
			explicit = true
		default:
			unknown = append(unknown, strings.TrimSpace(n))
		}
	}
	if !explicit {
		return DefaultPolicy(), unknown
	}
	return p, unknown
}

func (p Policy) ShouldFallback(k Kind) bool {
	if p.enabled == nil {
		return DefaultPolicy().enabled[k]
	}
	return p.enabled[k]
}
