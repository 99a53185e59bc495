package store

import (
	"fmt"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

// Include names a relation resolved eagerly by a [Query].
type Include string

const (
	// IncludeAddressCountries resolves the country of every address.
	IncludeAddressCountries Include = "addresses.country"
	// IncludeTags resolves the company's tags.
	IncludeTags Include = "tags"
)

// Query describes the read a benchmark iteration performs: companies with an id
// greater than MinID, ordered by name, at most Limit of them, with the listed
// relations resolved.
type Query struct {
	MinID    int64
	Includes []Include
	Limit    int
}

// SelectWithIncludes returns the query the benchmark times: every company,
// countries and tags included, limited to limit rows.
func SelectWithIncludes(limit int) Query {
	return Query{
		MinID:    0,
		Includes: []Include{IncludeAddressCountries, IncludeTags},
		Limit:    limit,
	}
}

// Has reports whether the query includes inc.
func (q Query) Has(inc Include) bool {
	for _, i := range q.Includes {
		if i == inc {
			return true
		}
	}
	return false
}

// Validate rejects queries a store cannot run.
func (q Query) Validate() error {
	if q.Limit <= 0 {
		return fmt.Errorf("store: query limit must be positive, got %d", q.Limit)
	}
	for _, i := range q.Includes {
		if i != IncludeAddressCountries && i != IncludeTags {
			return fmt.Errorf("store: unknown include %q", i)
		}
	}
	return nil
}

// Result is a materialized query result.
//
// Countries and Tags hold the included reference entities keyed by id. For the
// relational shape they are also reachable through the items themselves.
type Result[G any] struct {
	Items     []G
	Countries map[int64]models.Country
	Tags      map[int64]models.Tag
}

// NewResult returns an empty result with initialized maps.
func NewResult[G any](items []G) *Result[G] {
	return &Result[G]{
		Items:     items,
		Countries: map[int64]models.Country{},
		Tags:      map[int64]models.Tag{},
	}
}
