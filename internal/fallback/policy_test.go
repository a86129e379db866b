package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.False(t, p.ShouldFallback(KindSearch))
	assert.False(t, p.ShouldFallback(KindDetail))
	assert.True(t, p.ShouldFallback(KindCategories))
	assert.True(t, p.ShouldFallback(KindStatus))

	var zero Policy
	assert.True(t, zero.ShouldFallback(KindCategories))
	assert.False(t, zero.ShouldFallback(KindSearch))
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		check   map[Kind]bool
		unknown []string
	}{
		{"empty is default", nil, map[Kind]bool{KindSearch: false, KindCategories: true}, nil},
		{"explicit", []string{" Search ", "status"}, map[Kind]bool{KindSearch: true, KindStatus: true, KindCategories: false}, nil},
		{"none", []string{"none"}, map[Kind]bool{KindSearch: false, KindDetail: false, KindCategories: false, KindStatus: false}, nil},
		{"all", []string{"all"}, map[Kind]bool{KindSearch: true, KindDetail: true, KindCategories: true, KindStatus: true}, nil},
		{"typo keeps default", []string{"categoires"}, map[Kind]bool{KindSearch: false, KindCategories: true, KindStatus: true}, []string{"categoires"}},
		{"typo beside valid name", []string{"search", " statsu "}, map[Kind]bool{KindSearch: true, KindCategories: false, KindStatus: false}, []string{"statsu"}},
		{"none with typo", []string{"none", "srch"}, map[Kind]bool{KindSearch: false, KindCategories: false, KindStatus: false}, []string{"srch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, unknown := ParsePolicy(tt.in)
			for k, want := range tt.check {
				assert.Equal(t, want, p.ShouldFallback(k), string(k))
			}
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}
