// Package store defines the persistence contract every benchmark target implements.
//
// A [Store] owns one backend connection and is generic over the company graph
// shape G it persists: [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models.Company]
// for the relational access pattern and
// [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models.CompanyDocument]
// for the document access patterns. One driver in
// [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench] exercises all of them.
//
// # Implementations
//
//   - [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/relational.Store]: GORM over
//     normalized tables (PostgreSQL, or SQLite for in-process runs)
//   - [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/document.Store]: JSONB documents
//     on PostgreSQL through pgx
//   - [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/surrealdb.Store]: native SurrealQL
//     without an ORM
//
// # Lifecycle
//
// [Store.ResetAndSeed] destroys everything a previous run left behind, recreates
// the schema and inserts the reference countries and tags. It must succeed
// before any session is opened. Timed work then happens inside a [Session],
// the unit of work a benchmark iteration acquires and always releases:
//
//	sess, err := s.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	if err := sess.InsertMany(ctx, graphs); err != nil {
//		return err
//	}
//	return sess.Commit(ctx)
//
// Closing a session that was not committed discards its writes where the
// backend supports transactions.
//
// # Error Handling
//
// Methods return backend errors wrapped with context. There is no retry and no
// partial-success bookkeeping: a failed call fails the iteration.
package store

import (
	"context"
	"errors"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

// ErrNotSeeded is returned when a session is requested before ResetAndSeed
// completed on a store that needs the seeded state.
var ErrNotSeeded = errors.New("store: reference data not seeded")

// ErrSessionClosed is returned by session operations after Close or Commit.
var ErrSessionClosed = errors.New("store: session closed")

// Store is a benchmark target's persistence backend for graphs of shape G.
type Store[G any] interface {
	// Name identifies the store in logs and reports.
	Name() string

	// ResetAndSeed clears all prior benchmark data, recreates the schema and
	// inserts countries and tags. The returned catalog carries the ids the
	// backend assigned.
	ResetAndSeed(ctx context.Context, countries []models.Country, tags []models.Tag) (*models.Catalog, error)

	// Begin opens a unit of work.
	Begin(ctx context.Context) (Session[G], error)

	Close() error
}

// Session is a unit of work against a Store.
//
// Sessions are used by one goroutine at a time.
type Session[G any] interface {
	// InsertOne persists one graph: the company, its addresses and its tag
	// associations. Ids are assigned on g.
	InsertOne(ctx context.Context, g *G) error

	// InsertMany persists graphs through the backend's bulk path.
	InsertMany(ctx context.Context, graphs []G) error

	// Query returns a fully materialized result.
	Query(ctx context.Context, q Query) (*Result[G], error)

	Commit(ctx context.Context) error

	// Close releases the session, rolling back uncommitted work.
	// It is safe to call after Commit and more than once.
	Close() error
}
