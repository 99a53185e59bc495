package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
)

// LoggingStore wraps a Store and logs every operation at debug level with
// its item counts and elapsed time.
//
// Logging happens outside the wrapped call, so with the logger above debug
// level the only overhead is the level check. Benchmarks that care about the
// last microsecond should leave the store unwrapped.
type LoggingStore[G any] struct {
	Store[G]
	log zerolog.Logger
}

// WithLogging wraps s. The logger gets a "store" field with s.Name().
func WithLogging[G any](s Store[G], log zerolog.Logger) Store[G] {
	return &LoggingStore[G]{
		Store: s,
		log:   log.With().Str("store", s.Name()).Logger(),
	}
}

// Unwrap returns the underlying store
func (l *LoggingStore[G]) Unwrap() Store[G] {
	return l.Store
}

func (l *LoggingStore[G]) ResetAndSeed(ctx context.Context, countries []models.Country, tags []models.Tag) (*models.Catalog, error) {
	start := time.Now()
	catalog, err := l.Store.ResetAndSeed(ctx, countries, tags)
	l.done("reset_and_seed", start, err).
		Int("countries", len(countries)).
		Int("tags", len(tags)).
		Msg("reset and seed")
	return catalog, err
}

func (l *LoggingStore[G]) Begin(ctx context.Context) (Session[G], error) {
	start := time.Now()
	sess, err := l.Store.Begin(ctx)
	l.done("begin", start, err).Msg("begin session")
	if err != nil {
		return nil, err
	}
	return &loggingSession[G]{Session: sess, parent: l}, nil
}

func (l *LoggingStore[G]) Close() error {
	err := l.Store.Close()
	l.done("close", time.Now(), err).Msg("close store")
	return err
}

// done starts a debug event, or an error event when err is set.
func (l *LoggingStore[G]) done(op string, start time.Time, err error) *zerolog.Event {
	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Error().Err(err)
	}
	return ev.Str("op", op).Dur("elapsed", time.Since(start))
}

type loggingSession[G any] struct {
	Session[G]
	parent *LoggingStore[G]
}

func (s *loggingSession[G]) InsertOne(ctx context.Context, g *G) error {
	start := time.Now()
	err := s.Session.InsertOne(ctx, g)
	s.parent.done("insert_one", start, err).Msg("insert")
	return err
}

func (s *loggingSession[G]) InsertMany(ctx context.Context, graphs []G) error {
	start := time.Now()
	err := s.Session.InsertMany(ctx, graphs)
	s.parent.done("insert_many", start, err).Int("count", len(graphs)).Msg("insert batch")
	return err
}

func (s *loggingSession[G]) Query(ctx context.Context, q Query) (*Result[G], error) {
	start := time.Now()
	res, err := s.Session.Query(ctx, q)
	ev := s.parent.done("query", start, err).Int("limit", q.Limit)
	if res != nil {
		ev = ev.Int("count", len(res.Items)).
			Int("countries", len(res.Countries)).
			Int("tags", len(res.Tags))
	}
	ev.Msg("query")
	return res, err
}

func (s *loggingSession[G]) Commit(ctx context.Context) error {
	start := time.Now()
	err := s.Session.Commit(ctx)
	s.parent.done("commit", start, err).Msg("commit")
	return err
}

func (s *loggingSession[G]) Close() error {
	err := s.Session.Close()
	s.parent.done("release", time.Now(), err).Msg("release session")
	return err
}
