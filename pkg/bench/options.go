package bench

import "github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/fake"

const (
	DefaultGraphs     = 1000
	DefaultQueryLimit = 150
	DefaultBatchSize  = 100

	// MaxRandomQueryLimit bounds the limit drawn when QueryLimit is not positive.
	MaxRandomQueryLimit = 1000
)

// Options sizes the generated workload.
type Options struct {
	// Graphs is the number of companies per insert operation.
	Graphs int
	// QueryLimit caps the rows of SelectWithIncludes. Zero or less draws a
	// random limit in [1, MaxRandomQueryLimit] for every query.
	QueryLimit int
	// BatchSize is passed to stores whose bulk path writes in chunks.
	BatchSize int
	Countries int
	Tags      int
	// Seed seeds the data generator. Zero seeds from entropy.
	Seed uint64
}

// DefaultOptions returns the workload of the reference benchmark.
func DefaultOptions() Options {
	return Options{
		Graphs:     DefaultGraphs,
		QueryLimit: DefaultQueryLimit,
		BatchSize:  DefaultBatchSize,
		Countries:  fake.DefaultCountries,
		Tags:       fake.DefaultTags,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Graphs <= 0 {
		o.Graphs = d.Graphs
	}
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.Countries <= 0 {
		o.Countries = d.Countries
	}
	if o.Tags <= 0 {
		o.Tags = d.Tags
	}
	return o
}
