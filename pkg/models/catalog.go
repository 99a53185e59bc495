package models

// Catalog is the immutable set of reference entities seeded for a benchmark
// session, with the ids the persistence layer assigned to them.
//
// A Catalog is safe for concurrent reads. Accessors return copies so callers
// cannot modify the seeded sets.
type Catalog struct {
	countries []Country
	tags      []Tag
	countryBy map[int64]Country
	tagBy     map[int64]Tag
}

// NewCatalog copies countries and tags into a new Catalog.
func NewCatalog(countries []Country, tags []Tag) *Catalog {
	c := &Catalog{
		countries: append([]Country(nil), countries...),
		tags:      append([]Tag(nil), tags...),
		countryBy: make(map[int64]Country, len(countries)),
		tagBy:     make(map[int64]Tag, len(tags)),
	}
	for _, country := range c.countries {
		c.countryBy[country.ID] = country
	}
	for _, tag := range c.tags {
		c.tagBy[tag.ID] = tag
	}
	return c
}

// Countries returns the seeded countries in seeding order.
func (c *Catalog) Countries() []Country {
	return append([]Country(nil), c.countries...)
}

// Tags returns the seeded tags in seeding order.
func (c *Catalog) Tags() []Tag {
	return append([]Tag(nil), c.tags...)
}

// CountryIDs returns the ids of the seeded countries in seeding order.
func (c *Catalog) CountryIDs() []int64 {
	ids := make([]int64, len(c.countries))
	for i, country := range c.countries {
		ids[i] = country.ID
	}
	return ids
}

// TagIDs returns the ids of the seeded tags in seeding order.
func (c *Catalog) TagIDs() []int64 {
	ids := make([]int64, len(c.tags))
	for i, tag := range c.tags {
		ids[i] = tag.ID
	}
	return ids
}

// Country looks up a seeded country by id.
func (c *Catalog) Country(id int64) (Country, bool) {
	country, ok := c.countryBy[id]
	return country, ok
}

// Tag looks up a seeded tag by id.
func (c *Catalog) Tag(id int64) (Tag, bool) {
	tag, ok := c.tagBy[id]
	return tag, ok
}

// Len returns the number of seeded countries and tags.
func (c *Catalog) Len() (countries, tags int) {
	return len(c.countries), len(c.tags)
}
