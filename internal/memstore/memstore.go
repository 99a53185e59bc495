// Package memstore is an in-memory document store used by tests that need a
// working store without a database.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
)

// Store keeps documents in maps. Writes become visible on commit.
type Store struct {
	mu        sync.Mutex
	seeded    bool
	nextID    int64
	countries map[int64]models.Country
	tags      map[int64]models.Tag
	companies map[int64]models.CompanyDocument

	// Fail, when set, is returned by the named operation
	// ("reset", "begin", "insert", "query", "commit").
	Fail map[string]error
	// Sessions counts opened sessions; Released counts closed ones.
	Sessions, Released int
}

func New() *Store {
	return &Store{Fail: map[string]error{}}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) ResetAndSeed(_ context.Context, countries []models.Country, tags []models.Tag) (*models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Fail["reset"]; err != nil {
		return nil, err
	}
	s.nextID = 0
	s.countries = map[int64]models.Country{}
	s.tags = map[int64]models.Tag{}
	s.companies = map[int64]models.CompanyDocument{}
	seededCountries := make([]models.Country, len(countries))
	for i, c := range countries {
		s.nextID++
		c.ID = s.nextID
		s.countries[c.ID] = c
		seededCountries[i] = c
	}
	seededTags := make([]models.Tag, len(tags))
	for i, t := range tags {
		s.nextID++
		t.ID = s.nextID
		s.tags[t.ID] = t
		seededTags[i] = t
	}
	s.seeded = true
	return models.NewCatalog(seededCountries, seededTags), nil
}

func (s *Store) Begin(context.Context) (store.Session[models.CompanyDocument], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Fail["begin"]; err != nil {
		return nil, err
	}
	if !s.seeded {
		return nil, store.ErrNotSeeded
	}
	s.Sessions++
	return &session{s: s}, nil
}

func (s *Store) Close() error { return nil }

// Companies returns the number of committed companies.
func (s *Store) Companies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies)
}

type session struct {
	s       *Store
	pending  []models.CompanyDocument
	closed   bool
	released bool
}

func (sess *session) insert(g *models.CompanyDocument) error {
	sess.s.mu.Lock()
	defer sess.s.mu.Unlock()
	if err := sess.s.Fail["insert"]; err != nil {
		return err
	}
	sess.s.nextID++
	g.ID = sess.s.nextID
	sess.pending = append(sess.pending, *g)
	return nil
}

func (sess *session) InsertOne(_ context.Context, g *models.CompanyDocument) error {
	if sess.closed {
		return store.ErrSessionClosed
	}
	return sess.insert(g)
}

func (sess *session) InsertMany(_ context.Context, graphs []models.CompanyDocument) error {
	if sess.closed {
		return store.ErrSessionClosed
	}
	for i := range graphs {
		if err := sess.insert(&graphs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (sess *session) Query(_ context.Context, q store.Query) (*store.Result[models.CompanyDocument], error) {
	if sess.closed {
		return nil, store.ErrSessionClosed
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	sess.s.mu.Lock()
	defer sess.s.mu.Unlock()
	if err := sess.s.Fail["query"]; err != nil {
		return nil, err
	}

	items := make([]models.CompanyDocument, 0, len(sess.s.companies))
	for id, c := range sess.s.companies {
		if id > q.MinID {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].ID < items[j].ID
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}

	res := store.NewResult(items)
	for _, c := range items {
		if q.Has(store.IncludeAddressCountries) {
			for _, id := range c.CountryIDs() {
				res.Countries[id] = sess.s.countries[id]
			}
		}
		if q.Has(store.IncludeTags) {
			for _, id := range c.Tags {
				res.Tags[id] = sess.s.tags[id]
			}
		}
	}
	return res, nil
}

func (sess *session) Commit(context.Context) error {
	if sess.closed {
		return store.ErrSessionClosed
	}
	sess.s.mu.Lock()
	defer sess.s.mu.Unlock()
	if err := sess.s.Fail["commit"]; err != nil {
		return err
	}
	for _, c := range sess.pending {
		sess.s.companies[c.ID] = c
	}
	sess.pending = nil
	sess.closed = true
	return nil
}

func (sess *session) Close() error {
	sess.s.mu.Lock()
	defer sess.s.mu.Unlock()
	if sess.released {
		return nil
	}
	sess.released = true
	sess.closed = true
	sess.pending = nil
	sess.s.Released++
	return nil
}
