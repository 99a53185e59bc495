package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/fake"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
)

// ErrNotSetUp is returned by timed operations before Setup succeeded.
var ErrNotSetUp = errors.New("bench: target not set up")

// Operation names a timed operation.
type Operation string

const (
	OpInsert             Operation = "Insert"
	OpInsertBatch        Operation = "InsertBatch"
	OpSelectWithIncludes Operation = "SelectWithIncludes"
)

// Operations returns the timed operations in execution order.
func Operations() []Operation {
	return []Operation{OpInsert, OpInsertBatch, OpSelectWithIncludes}
}

// Measurement is the raw result of one timed operation.
type Measurement struct {
	Target    string
	Operation Operation
	Elapsed   time.Duration
	// Count is the number of companies inserted or returned.
	Count int
	// Countries and Tags count the distinct reference entities a query
	// resolved. They are zero for inserts.
	Countries int
	Tags      int
}

func (m Measurement) String() string {
	s := fmt.Sprintf("%s %s: %d companies in %s", m.Target, m.Operation, m.Count, m.Elapsed)
	if m.Operation == OpSelectWithIncludes {
		s += fmt.Sprintf(" (%d countries, %d tags)", m.Countries, m.Tags)
	}
	return s
}

// Target is a store under benchmark.
type Target interface {
	Name() string
	// Setup resets the store and seeds reference data. It is not timed.
	Setup(ctx context.Context) error
	// Insert inserts Options.Graphs companies one call at a time within one session.
	Insert(ctx context.Context) (Measurement, error)
	// InsertBatch inserts Options.Graphs companies with one bulk call.
	InsertBatch(ctx context.Context) (Measurement, error)
	// SelectWithIncludes runs one bounded, ordered query with countries and
	// tags resolved.
	SelectWithIncludes(ctx context.Context) (Measurement, error)
	Close() error
}

type target[G any] struct {
	store store.Store[G]
	build fake.BuilderFunc[G]
	opts  Options
	src   *fake.Source

	catalog *models.Catalog
	graphs  *fake.Faker[G]
}

// NewTarget binds s to the graph builder of its shape.
func NewTarget[G any](s store.Store[G], build fake.BuilderFunc[G], opts Options) Target {
	opts = opts.withDefaults()
	return &target[G]{
		store: s,
		build: build,
		opts:  opts,
		src:   fake.NewSource(opts.Seed),
	}
}

func (t *target[G]) Name() string {
	return t.store.Name()
}

func (t *target[G]) Setup(ctx context.Context) error {
	t.catalog, t.graphs = nil, nil

	countries := fake.Countries(t.src, t.opts.Countries)
	tags := fake.Tags(t.src, t.opts.Tags)
	catalog, err := t.store.ResetAndSeed(ctx, countries, tags)
	if err != nil {
		return fmt.Errorf("%s: reset and seed: %w", t.Name(), err)
	}
	graphs, err := t.build(t.src, catalog)
	if err != nil {
		return fmt.Errorf("%s: graph builder: %w", t.Name(), err)
	}

	t.catalog, t.graphs = catalog, graphs
	return nil
}

func (t *target[G]) Insert(ctx context.Context) (Measurement, error) {
	if t.graphs == nil {
		return Measurement{}, ErrNotSetUp
	}
	graphs := t.graphs.GenerateN(t.opts.Graphs)

	start := time.Now()
	err := t.withSession(ctx, func(sess store.Session[G]) error {
		for i := range graphs {
			if err := sess.InsertOne(ctx, &graphs[i]); err != nil {
				return err
			}
		}
		return sess.Commit(ctx)
	})
	elapsed := time.Since(start)
	if err != nil {
		return Measurement{}, fmt.Errorf("%s: %s: %w", t.Name(), OpInsert, err)
	}
	return t.measurement(OpInsert, elapsed, len(graphs)), nil
}

func (t *target[G]) InsertBatch(ctx context.Context) (Measurement, error) {
	if t.graphs == nil {
		return Measurement{}, ErrNotSetUp
	}
	graphs := t.graphs.GenerateN(t.opts.Graphs)

	start := time.Now()
	err := t.withSession(ctx, func(sess store.Session[G]) error {
		if err := sess.InsertMany(ctx, graphs); err != nil {
			return err
		}
		return sess.Commit(ctx)
	})
	elapsed := time.Since(start)
	if err != nil {
		return Measurement{}, fmt.Errorf("%s: %s: %w", t.Name(), OpInsertBatch, err)
	}
	return t.measurement(OpInsertBatch, elapsed, len(graphs)), nil
}

func (t *target[G]) SelectWithIncludes(ctx context.Context) (Measurement, error) {
	if t.graphs == nil {
		return Measurement{}, ErrNotSetUp
	}
	limit := t.opts.QueryLimit
	if limit <= 0 {
		limit = t.src.Between(1, MaxRandomQueryLimit)
	}
	q := store.SelectWithIncludes(limit)

	var res *store.Result[G]
	start := time.Now()
	err := t.withSession(ctx, func(sess store.Session[G]) error {
		var err error
		res, err = sess.Query(ctx, q)
		return err
	})
	elapsed := time.Since(start)
	if err != nil {
		return Measurement{}, fmt.Errorf("%s: %s: %w", t.Name(), OpSelectWithIncludes, err)
	}

	m := t.measurement(OpSelectWithIncludes, elapsed, len(res.Items))
	m.Countries, m.Tags = len(res.Countries), len(res.Tags)
	return m, nil
}

func (t *target[G]) Close() error {
	return t.store.Close()
}

// withSession runs fn in a new session and always releases it.
func (t *target[G]) withSession(ctx context.Context, fn func(store.Session[G]) error) (err error) {
	sess, err := t.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(sess)
}

func (t *target[G]) measurement(op Operation, elapsed time.Duration, count int) Measurement {
	return Measurement{
		Target:    t.Name(),
		Operation: op,
		Elapsed:   elapsed,
		Count:     count,
	}
}
