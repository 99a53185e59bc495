package fake_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/fake"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

// seededCatalog mimics what a store returns after seeding: ids that are not
// simply 1..n so membership checks are meaningful.
func seededCatalog(src *fake.Source) *models.Catalog {
	countries := fake.Countries(src, fake.DefaultCountries)
	for i := range countries {
		countries[i].ID = int64(100 + i*3)
	}
	tags := fake.Tags(src, fake.DefaultTags)
	for i := range tags {
		tags[i].ID = int64(1000 + i*7)
	}
	return models.NewCatalog(countries, tags)
}

func TestBuildersRejectEmptyCatalog(t *testing.T) {
	src := fake.NewSource(1)
	empty := models.NewCatalog(nil, nil)

	_, err := fake.RelationalBuilder(src, empty)
	require.ErrorIs(t, err, fake.ErrEmptyCatalog)

	_, err = fake.DocumentBuilder(src, empty)
	require.ErrorIs(t, err, fake.ErrEmptyCatalog)
}

func TestRelationalGraphHasNoIDs(t *testing.T) {
	src := fake.NewSource(3)
	b, err := fake.RelationalBuilder(src, seededCatalog(src))
	require.NoError(t, err)

	c := b.Generate()
	assert.Zero(t, c.ID)
	assert.NotEmpty(t, c.Name)
	for _, a := range c.Addresses {
		assert.Zero(t, a.ID)
		assert.Zero(t, a.CompanyID)
		assert.Nil(t, a.Country)
	}
	assert.Equal(t, []string{"Name", "Addresses", "Tags"}, b.Fields())
}

func TestProperty_RelationalGraphShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("relational graphs respect address and tag bounds", prop.ForAll(
		func(seed uint64) bool {
			src := fake.NewSource(seed)
			catalog := seededCatalog(src)
			b, err := fake.RelationalBuilder(src, catalog)
			if err != nil {
				return false
			}
			c := b.Generate()
			if len(c.Addresses) < fake.MinAddresses || len(c.Addresses) > fake.MaxAddresses {
				return false
			}
			for _, a := range c.Addresses {
				if _, ok := catalog.Country(a.CountryID); !ok {
					return false
				}
			}
			if len(c.Tags) < 1 || len(c.Tags) > fake.TagPicks {
				return false
			}
			seen := map[int64]bool{}
			for _, tg := range c.Tags {
				if seen[tg.ID] {
					return false
				}
				seen[tg.ID] = true
				if _, ok := catalog.Tag(tg.ID); !ok {
					return false
				}
			}
			return true
		},
		gen.UInt64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}

func TestProperty_DocumentGraphShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("document graphs respect address and tag bounds", prop.ForAll(
		func(seed uint64) bool {
			src := fake.NewSource(seed)
			catalog := seededCatalog(src)
			b, err := fake.DocumentBuilder(src, catalog)
			if err != nil {
				return false
			}
			c := b.Generate()
			if c.ID != 0 {
				return false
			}
			if len(c.Addresses) < fake.MinAddresses || len(c.Addresses) > fake.MaxAddresses {
				return false
			}
			for _, id := range c.CountryIDs() {
				if _, ok := catalog.Country(id); !ok {
					return false
				}
			}
			if len(c.Tags) < 1 || len(c.Tags) > fake.TagPicks {
				return false
			}
			seen := map[int64]bool{}
			for _, id := range c.Tags {
				if seen[id] {
					return false
				}
				seen[id] = true
				if _, ok := catalog.Tag(id); !ok {
					return false
				}
			}
			return true
		},
		gen.UInt64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}

func TestProperty_GenerateBetweenInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("GenerateBetween count is within inclusive bounds", prop.ForAll(
		func(lo, width int) bool {
			hi := lo + width
			n := len(fake.TagFaker(fake.NewSource(uint64(lo*31+width+1))).GenerateBetween(lo, hi))
			return n >= lo && n <= hi
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
