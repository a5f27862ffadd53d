// Package bloom provides listing URL deduplication backed by a Bloom filter.
package bloom

import (
	"net/url"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLSet remembers listing URLs by their canonical form. The Bloom filter
// answers most misses; every hit is confirmed against the exact set, so
// membership is never a false positive.
type URLSet struct {
	f     *bloom.BloomFilter
	exact map[string]struct{}
}

// NewURLSet creates a set sized for n expected URLs with the given false
// positive rate for the filter.
func NewURLSet(n uint, fpRate float64) *URLSet {
	if n == 0 {
		n = 1
	}
	return &URLSet{
		f:     bloom.NewWithEstimates(n, fpRate),
		exact: make(map[string]struct{}, n),
	}
}

// Add records u.
func (s *URLSet) Add(u string) {
	key := Canonical(u)
	s.f.AddString(key)
	s.exact[key] = struct{}{}
}

// Contains reports whether u was added.
func (s *URLSet) Contains(u string) bool {
	key := Canonical(u)
	if !s.f.TestString(key) {
		return false
	}
	_, ok := s.exact[key]
	return ok
}

// AddNew records u and reports whether it was absent before.
func (s *URLSet) AddNew(u string) bool {
	if s.Contains(u) {
		return false
	}
	s.Add(u)
	return true
}

// Canonical strips the query and fragment from u. Listing pages carry
// tracking parameters that differ between searches for the same ad.
// Unparseable input is returned unchanged.
func Canonical(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String()
}
