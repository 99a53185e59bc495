package fake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/fake"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

func TestFakerGenerateLeavesUnruledFieldsZero(t *testing.T) {
	src := fake.NewSource(42)
	f := fake.NewFaker[models.Company](src).
		RuleFor(fake.Field("Name", func(c *models.Company, v string) { c.Name = v }, (*fake.Source).CompanyName))

	c := f.Generate()
	assert.NotEmpty(t, c.Name)
	assert.Zero(t, c.ID)
	assert.Nil(t, c.Addresses)
	assert.Nil(t, c.Tags)
}

func TestFakerRuleForReplacesInPlace(t *testing.T) {
	src := fake.NewSource(1)
	f := fake.NewFaker[models.Tag](src).
		RuleFor(fake.Field("Code", func(tg *models.Tag, v string) { tg.Code = v }, func(*fake.Source) string { return "first" })).
		RuleFor(fake.Field("Name", func(tg *models.Tag, v string) { tg.Name = v }, func(*fake.Source) string { return "name" })).
		RuleFor(fake.Field("Code", func(tg *models.Tag, v string) { tg.Code = v }, func(*fake.Source) string { return "second" }))

	assert.Equal(t, []string{"Code", "Name"}, f.Fields())
	tag := f.Generate()
	assert.Equal(t, "second", tag.Code)
	assert.Equal(t, "name", tag.Name)
}

func TestFakerGenerateN(t *testing.T) {
	src := fake.NewSource(7)
	assert.Len(t, fake.TagFaker(src).GenerateN(12), 12)
	assert.Empty(t, fake.TagFaker(src).GenerateN(-1))
}

func TestFakerGenerateBetweenFixedBounds(t *testing.T) {
	src := fake.NewSource(7)
	assert.Len(t, fake.TagFaker(src).GenerateBetween(3, 3), 3)
	// Swapped bounds are normalized.
	n := len(fake.TagFaker(src).GenerateBetween(4, 2))
	assert.GreaterOrEqual(t, n, 2)
	assert.LessOrEqual(t, n, 4)
}

func TestSourceSeedIsReproducible(t *testing.T) {
	a := fake.Tags(fake.NewSource(99), 10)
	b := fake.Tags(fake.NewSource(99), 10)
	assert.Equal(t, a, b)
}

func TestReferenceSets(t *testing.T) {
	src := fake.NewSource(5)

	countries := fake.Countries(src, fake.DefaultCountries)
	require.Len(t, countries, fake.DefaultCountries)
	for _, c := range countries {
		assert.Zero(t, c.ID)
		assert.NotEmpty(t, c.Code)
		assert.NotEmpty(t, c.Name)
	}

	tags := fake.Tags(src, fake.DefaultTags)
	require.Len(t, tags, fake.DefaultTags)
	for _, tg := range tags {
		assert.Zero(t, tg.ID)
		assert.Regexp(t, `^[A-Z0-9]{5}$`, tg.Code)
		assert.NotEmpty(t, tg.Name)
	}
}

func TestPickPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() {
		fake.Pick(fake.NewSource(1), []int{})
	})
}
