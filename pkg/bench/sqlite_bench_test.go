package bench_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/fake"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/relational"
)

func sqliteTarget(tb testing.TB, name string, opts bench.Options) bench.Target {
	tb.Helper()
	s, err := relational.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), relational.WithBatchSize(opts.BatchSize))
	require.NoError(tb, err)
	tgt := bench.NewTarget[models.Company](s, fake.RelationalBuilder, opts)
	tb.Cleanup(func() { _ = tgt.Close() })
	require.NoError(tb, tgt.Setup(context.Background()))
	return tgt
}

func TestRelationalScenario(t *testing.T) {
	ctx := context.Background()
	tgt := sqliteTarget(t, "scenario", bench.Options{Graphs: 1000, QueryLimit: 150, Seed: 8})

	m, err := tgt.InsertBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, m.Count)

	m, err = tgt.SelectWithIncludes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, m.Count)
	assert.Positive(t, m.Countries)
	assert.LessOrEqual(t, m.Countries, fake.DefaultCountries)
	assert.Positive(t, m.Tags)
	assert.LessOrEqual(t, m.Tags, fake.DefaultTags)
}

func BenchmarkRelationalInsert(b *testing.B) {
	tgt := sqliteTarget(b, "bench_insert", bench.Options{Graphs: 100, Seed: 9})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tgt.Insert(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRelationalInsertBatch(b *testing.B) {
	tgt := sqliteTarget(b, "bench_insert_batch", bench.Options{Graphs: 100, Seed: 10})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tgt.InsertBatch(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRelationalSelectWithIncludes(b *testing.B) {
	tgt := sqliteTarget(b, "bench_select", bench.Options{Graphs: 1000, QueryLimit: 150, Seed: 11})
	if _, err := tgt.InsertBatch(context.Background()); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tgt.SelectWithIncludes(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
