package fake

import (
	"errors"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

// Graph shape limits.
const (
	MinAddresses = 1
	MaxAddresses = 4
	TagPicks     = 10
)

// ErrEmptyCatalog is returned when a graph builder is given a catalog
// without countries or tags.
var ErrEmptyCatalog = errors.New("fake: catalog has no countries or tags")

// BuilderFunc returns a Faker producing company graphs of shape G whose
// references all come from catalog.
type BuilderFunc[G any] func(src *Source, catalog *models.Catalog) (*Faker[G], error)

// RelationalBuilder builds relational company graphs. Each address
// references a catalog country and the company carries up to TagPicks
// catalog tags, deduplicated by id.
func RelationalBuilder(src *Source, catalog *models.Catalog) (*Faker[models.Company], error) {
	countries := catalog.Countries()
	tags := catalog.Tags()
	if len(countries) == 0 || len(tags) == 0 {
		return nil, ErrEmptyCatalog
	}

	addresses := NewFaker[models.Address](src).
		RuleFor(Field("Street", func(a *models.Address, v string) { a.Street = v }, (*Source).Street)).
		RuleFor(Field("City", func(a *models.Address, v string) { a.City = v }, (*Source).City)).
		RuleFor(Field("State", func(a *models.Address, v string) { a.State = v }, (*Source).State)).
		RuleFor(Field("ZipCode", func(a *models.Address, v string) { a.ZipCode = v }, (*Source).ZipCode)).
		RuleFor(Field("CountryID", func(a *models.Address, v int64) { a.CountryID = v }, func(s *Source) int64 {
			return Pick(s, countries).ID
		}))

	return NewFaker[models.Company](src).
		RuleFor(Field("Name", func(c *models.Company, v string) { c.Name = v }, (*Source).CompanyName)).
		RuleFor(Field("Addresses", func(c *models.Company, v []models.Address) { c.Addresses = v }, func(*Source) []models.Address {
			return addresses.GenerateBetween(MinAddresses, MaxAddresses)
		})).
		RuleFor(Field("Tags", func(c *models.Company, v []models.Tag) { c.Tags = v }, func(s *Source) []models.Tag {
			return distinctBy(pickN(s, tags, TagPicks), func(t models.Tag) int64 { return t.ID })
		})), nil
}

// DocumentBuilder builds document company graphs. Address country ids and
// tag ids are drawn from the catalog ids, deduplicated.
func DocumentBuilder(src *Source, catalog *models.Catalog) (*Faker[models.CompanyDocument], error) {
	countryIDs := catalog.CountryIDs()
	tagIDs := catalog.TagIDs()
	if len(countryIDs) == 0 || len(tagIDs) == 0 {
		return nil, ErrEmptyCatalog
	}

	addresses := NewFaker[models.AddressDocument](src).
		RuleFor(Field("Street", func(a *models.AddressDocument, v string) { a.Street = v }, (*Source).Street)).
		RuleFor(Field("City", func(a *models.AddressDocument, v string) { a.City = v }, (*Source).City)).
		RuleFor(Field("State", func(a *models.AddressDocument, v string) { a.State = v }, (*Source).State)).
		RuleFor(Field("ZipCode", func(a *models.AddressDocument, v string) { a.ZipCode = v }, (*Source).ZipCode)).
		RuleFor(Field("CountryID", func(a *models.AddressDocument, v int64) { a.CountryID = v }, func(s *Source) int64 {
			return Pick(s, countryIDs)
		}))

	return NewFaker[models.CompanyDocument](src).
		RuleFor(Field("Name", func(c *models.CompanyDocument, v string) { c.Name = v }, (*Source).CompanyName)).
		RuleFor(Field("Addresses", func(c *models.CompanyDocument, v []models.AddressDocument) { c.Addresses = v }, func(*Source) []models.AddressDocument {
			return addresses.GenerateBetween(MinAddresses, MaxAddresses)
		})).
		RuleFor(Field("Tags", func(c *models.CompanyDocument, v []int64) { c.Tags = v }, func(s *Source) []int64 {
			return distinctBy(pickN(s, tagIDs, TagPicks), func(id int64) int64 { return id })
		})), nil
}

func pickN[T any](s *Source, items []T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = Pick(s, items)
	}
	return out
}

// distinctBy keeps the first occurrence of each key, preserving order.
func distinctBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
