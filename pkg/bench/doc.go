// Package bench drives the timed benchmark operations against a store.
//
// A [Target] binds one [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store.Store]
// to the graph builder of its shape. Its life is a small state machine:
//
//  1. Setup, once and untimed: reset the store and seed the reference data.
//  2. Timed operations, repeated by the caller: Insert, InsertBatch and
//     SelectWithIncludes. Each returns one [Measurement].
//  3. Close.
//
// Graphs are generated before the clock starts, so a measurement covers only
// the store work: opening the session, the inserts or the query, the commit
// and releasing the session. The session is released on every path,
// including failures.
//
// The driver does not aggregate. Repetition and statistics belong to
// [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/harness].
package bench
