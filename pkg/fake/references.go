package fake

import "github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"

// Reference set sizes seeded per session.
const (
	DefaultCountries = 5
	DefaultTags      = 50
)

const tagCodeLength = 5

// CountryFaker returns a Faker for countries with code and name rules.
func CountryFaker(src *Source) *Faker[models.Country] {
	return NewFaker[models.Country](src).
		RuleFor(Field("Code", func(c *models.Country, v string) { c.Code = v }, (*Source).CountryCode)).
		RuleFor(Field("Name", func(c *models.Country, v string) { c.Name = v }, (*Source).CountryName))
}

// TagFaker returns a Faker for tags with an upper case alphanumeric code and
// a product name.
func TagFaker(src *Source) *Faker[models.Tag] {
	return NewFaker[models.Tag](src).
		RuleFor(Field("Code", func(t *models.Tag, v string) { t.Code = v }, func(s *Source) string {
			return s.AlphaNumeric(tagCodeLength)
		})).
		RuleFor(Field("Name", func(t *models.Tag, v string) { t.Name = v }, (*Source).ProductName))
}

// Countries generates n countries without ids.
func Countries(src *Source, n int) []models.Country {
	return CountryFaker(src).GenerateN(n)
}

// Tags generates n tags without ids.
func Tags(src *Source, n int) []models.Tag {
	return TagFaker(src).GenerateN(n)
}
