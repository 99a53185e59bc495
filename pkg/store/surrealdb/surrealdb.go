// Package surrealdb implements [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store.Store]
// for the document access pattern on SurrealDB, using native SurrealQL
// without an ORM.
//
// # Records
//
// Companies, countries and tags live in the companies, countries and tags
// tables. Addresses are embedded in the company record; the country of an
// address and the tags of a company are stored as record links
// (countries:3, tags:17) rather than copies.
//
// Record ids are integers handed out by the store from per-table counters
// that restart at one on every [Store.ResetAndSeed]. This keeps the ids
// comparable with the sequences of the PostgreSQL stores and lets
// "id greater than" filters use record::id.
//
// # Units of Work
//
// The RPC protocol has no interactive transactions, so a [Session] writes
// through immediately: [Session.Commit] only marks the session finished and
// [Session.Close] cannot undo writes that already happened.
//
// # Includes
//
// [Session.Query] reads the page of companies and then resolves the linked
// countries and tags in a single multi-statement query.
package surrealdb

import (
	"context"
	"fmt"
	"sync/atomic"

	surrealdb "github.com/surrealdb/surrealdb.go"
	sdbmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
)

// Name identifies the SurrealDB store in reports.
const Name = "surrealdb"

const (
	companiesTable = "companies"
	countriesTable = "countries"
	tagsTable      = "tags"
)

const resetQuery = `
REMOVE TABLE IF EXISTS companies;
REMOVE TABLE IF EXISTS countries;
REMOVE TABLE IF EXISTS tags;
DEFINE INDEX companies_name ON companies FIELDS name;
`

// Config holds connection settings.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Store persists company documents in SurrealDB.
type Store struct {
	db        *surrealdb.DB
	seeded    atomic.Bool
	companyID atomic.Int64
}

var _ store.Store[models.CompanyDocument] = (*Store)(nil)

// Open connects to cfg.URL, signs in when credentials are set and selects
// the namespace and database.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, &surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &Store{db: db}, nil
}

// Name returns "surrealdb".
func (s *Store) Name() string {
	return Name
}

// ResetAndSeed removes the three tables and inserts countries and tags with
// ids 1..n.
func (s *Store) ResetAndSeed(ctx context.Context, countries []models.Country, tags []models.Tag) (*models.Catalog, error) {
	s.seeded.Store(false)
	if err := exec(ctx, s.db, resetQuery, nil); err != nil {
		return nil, fmt.Errorf("failed to reset tables: %w", err)
	}
	s.companyID.Store(0)

	seededCountries := make([]models.Country, len(countries))
	countryRecords := make([]referenceRecord, len(countries))
	for i, c := range countries {
		c.ID = int64(i + 1)
		seededCountries[i] = c
		countryRecords[i] = newReferenceRecord(countriesTable, c.ID, c.Code, c.Name)
	}

	seededTags := make([]models.Tag, len(tags))
	tagRecords := make([]referenceRecord, len(tags))
	for i, t := range tags {
		t.ID = int64(i + 1)
		seededTags[i] = t
		tagRecords[i] = newReferenceRecord(tagsTable, t.ID, t.Code, t.Name)
	}

	if err := exec(ctx, s.db,
		`INSERT INTO countries $countries RETURN NONE; INSERT INTO tags $tags RETURN NONE;`,
		map[string]any{
			"countries": countryRecords,
			"tags":      tagRecords,
		}); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	s.seeded.Store(true)
	return models.NewCatalog(seededCountries, seededTags), nil
}

// Begin returns a session. It fails with store.ErrNotSeeded until
// ResetAndSeed succeeded.
func (s *Store) Begin(context.Context) (store.Session[models.CompanyDocument], error) {
	if !s.seeded.Load() {
		return nil, store.ErrNotSeeded
	}
	return &Session{s: s}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

func (s *Store) nextCompanyIDs(n int) int64 {
	return s.companyID.Add(int64(n)) - int64(n) + 1
}

// Session writes through to SurrealDB.
type Session struct {
	s    *Store
	done bool
}

// InsertOne creates one company record and sets its id.
func (sess *Session) InsertOne(ctx context.Context, c *models.CompanyDocument) error {
	if sess.done {
		return store.ErrSessionClosed
	}
	id := sess.s.nextCompanyIDs(1)
	rec := newCompanyRecord(c)
	if _, err := surrealdb.Create[struct{}](ctx, sess.s.db, sdbmodels.RecordID{Table: companiesTable, ID: id}, rec); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	c.ID = id
	return nil
}

// InsertMany inserts all companies with one INSERT statement.
func (sess *Session) InsertMany(ctx context.Context, companies []models.CompanyDocument) error {
	if sess.done {
		return store.ErrSessionClosed
	}
	if len(companies) == 0 {
		return nil
	}

	first := sess.s.nextCompanyIDs(len(companies))
	records := make([]companyRecord, len(companies))
	for i := range companies {
		records[i] = newCompanyRecord(&companies[i])
		records[i].ID = &sdbmodels.RecordID{Table: companiesTable, ID: first + int64(i)}
	}

	if err := exec(ctx, sess.s.db, `INSERT INTO companies $companies RETURN NONE`, map[string]any{
		"companies": records,
	}); err != nil {
		return fmt.Errorf("failed to insert companies: %w", err)
	}
	for i := range companies {
		companies[i].ID = first + int64(i)
	}
	return nil
}

// Query selects companies ordered by name and resolves the linked records.
func (sess *Session) Query(ctx context.Context, q store.Query) (*store.Result[models.CompanyDocument], error) {
	if sess.done {
		return nil, store.ErrSessionClosed
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	results, err := surrealdb.Query[[]companyRecord](ctx, sess.s.db,
		`SELECT * FROM companies WHERE record::id(id) > $min ORDER BY name LIMIT $limit`,
		map[string]any{
			"min":   q.MinID,
			"limit": q.Limit,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	records, err := single(results)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}

	items := make([]models.CompanyDocument, len(records))
	for i := range records {
		if items[i], err = records[i].document(); err != nil {
			return nil, err
		}
	}

	res := store.NewResult(items)
	if err := sess.resolveIncludes(ctx, q, records, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (sess *Session) resolveIncludes(ctx context.Context, q store.Query, records []companyRecord, res *store.Result[models.CompanyDocument]) error {
	var countryLinks, tagLinks []sdbmodels.RecordID
	seen := map[string]struct{}{}
	add := func(links []sdbmodels.RecordID, link sdbmodels.RecordID) []sdbmodels.RecordID {
		key := fmt.Sprintf("%s:%v", link.Table, link.ID)
		if _, ok := seen[key]; ok {
			return links
		}
		seen[key] = struct{}{}
		return append(links, link)
	}
	for _, r := range records {
		if q.Has(store.IncludeAddressCountries) {
			for _, a := range r.Addresses {
				countryLinks = add(countryLinks, a.Country)
			}
		}
		if q.Has(store.IncludeTags) {
			for _, t := range r.Tags {
				tagLinks = add(tagLinks, t)
			}
		}
	}
	if len(countryLinks) == 0 && len(tagLinks) == 0 {
		return nil
	}

	results, err := surrealdb.Query[[]referenceRecord](ctx, sess.s.db,
		`SELECT * FROM $countries; SELECT * FROM $tags;`,
		map[string]any{
			"countries": countryLinks,
			"tags":      tagLinks,
		})
	if err != nil {
		return fmt.Errorf("failed to resolve includes: %w", err)
	}
	if results == nil || len(*results) != 2 {
		return fmt.Errorf("failed to resolve includes: unexpected result count")
	}

	for _, r := range (*results)[0].Result {
		id, code, name, err := r.fields()
		if err != nil {
			return err
		}
		res.Countries[id] = models.Country{ID: id, Code: code, Name: name}
	}
	for _, r := range (*results)[1].Result {
		id, code, name, err := r.fields()
		if err != nil {
			return err
		}
		res.Tags[id] = models.Tag{ID: id, Code: code, Name: name}
	}
	return nil
}

// Commit marks the session finished. Writes are already durable.
func (sess *Session) Commit(context.Context) error {
	if sess.done {
		return store.ErrSessionClosed
	}
	sess.done = true
	return nil
}

// Close marks the session finished.
func (sess *Session) Close() error {
	sess.done = true
	return nil
}

// exec runs a query whose results are not needed and reports the first
// failed statement.
func exec(ctx context.Context, db *surrealdb.DB, sql string, vars map[string]any) error {
	results, err := surrealdb.Query[any](ctx, db, sql, vars)
	if err != nil {
		return err
	}
	if results == nil {
		return nil
	}
	for i, r := range *results {
		if r.Status != "OK" {
			return fmt.Errorf("statement %d: %s: %v", i, r.Status, r.Result)
		}
	}
	return nil
}

func single[T any](results *[]surrealdb.QueryResult[T]) (T, error) {
	var zero T
	if results == nil || len(*results) == 0 {
		return zero, fmt.Errorf("empty query response")
	}
	r := (*results)[0]
	if r.Status != "OK" {
		return zero, fmt.Errorf("query status %s", r.Status)
	}
	return r.Result, nil
}
