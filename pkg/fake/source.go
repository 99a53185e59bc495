package fake

import (
	"github.com/brianvoe/gofakeit/v7"
)

// codeCharset is the alphabet of reference codes: upper case letters and digits.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Source is the pseudo-random source every rule draws from.
//
// A Source is not safe for concurrent use.
type Source struct {
	f *gofakeit.Faker
}

// NewSource returns a Source seeded with seed.
// A zero seed draws the seed from entropy, so every run differs.
func NewSource(seed uint64) *Source {
	return &Source{f: gofakeit.New(seed)}
}

// Faker exposes the underlying gofakeit faker for value domains
// this package does not wrap.
func (s *Source) Faker() *gofakeit.Faker {
	return s.f
}

func (s *Source) Street() string      { return s.f.Street() }
func (s *Source) City() string        { return s.f.City() }
func (s *Source) State() string       { return s.f.State() }
func (s *Source) ZipCode() string     { return s.f.Zip() }
func (s *Source) CountryName() string { return s.f.Country() }
func (s *Source) CountryCode() string { return s.f.CountryAbr() }
func (s *Source) CompanyName() string { return s.f.Company() }
func (s *Source) ProductName() string { return s.f.ProductName() }

// AlphaNumeric returns n characters drawn uniformly from upper case letters
// and digits.
func (s *Source) AlphaNumeric(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = codeCharset[s.f.IntRange(0, len(codeCharset)-1)]
	}
	return string(buf)
}

// Between returns a uniformly chosen integer in [min, max].
// When max < min the bounds are swapped.
func (s *Source) Between(min, max int) int {
	if max < min {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return s.f.IntRange(min, max)
}

// Pick returns a uniformly chosen element of items.
// It panics when items is empty.
func Pick[T any](s *Source, items []T) T {
	if len(items) == 0 {
		panic("fake: Pick from empty slice")
	}
	return items[s.Between(0, len(items)-1)]
}
