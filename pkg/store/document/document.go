// Package document implements [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store.Store]
// for the document access pattern: whole company graphs stored as JSONB on
// PostgreSQL, accessed through pgx without an ORM.
//
// # Layout
//
// Each collection is a table with a bigserial id and a jsonb body:
//
//	doc_countries (id bigserial primary key, data jsonb not null)
//	doc_tags      (id bigserial primary key, data jsonb not null)
//	doc_companies (id bigserial primary key, data jsonb not null)
//
// Addresses are embedded in the company body and tags are referenced by id.
// The id column is authoritative: the "id" inside a body is ignored on read.
//
// # Write Paths
//
// [Session.InsertOne] issues one INSERT ... RETURNING id per document.
// [Session.InsertMany] reserves ids from the table's sequence in one round trip
// and streams the documents with the COPY protocol.
//
// # Includes
//
// Documents hold references, not the referenced entities. [Session.Query]
// first reads the page of companies, then resolves the referenced countries
// and tags with one batch of id = ANY($1) lookups.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
)

// Name identifies the document store in reports.
const Name = "document"

const (
	countriesTable = "doc_countries"
	tagsTable      = "doc_tags"
	companiesTable = "doc_companies"
)

const resetSQL = `
DROP TABLE IF EXISTS doc_companies, doc_tags, doc_countries;
CREATE TABLE doc_countries (id bigserial PRIMARY KEY, data jsonb NOT NULL);
CREATE TABLE doc_tags (id bigserial PRIMARY KEY, data jsonb NOT NULL);
CREATE TABLE doc_companies (id bigserial PRIMARY KEY, data jsonb NOT NULL);
CREATE INDEX doc_companies_name ON doc_companies ((data->>'name'));
`

// Store persists company documents in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	seeded bool
}

var _ store.Store[models.CompanyDocument] = (*Store)(nil)

// Open creates a connection pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(pool), nil
}

// New wraps an existing pool. Close closes the pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Name returns "document".
func (s *Store) Name() string {
	return Name
}

// ResetAndSeed recreates the three tables and inserts countries and tags.
func (s *Store) ResetAndSeed(ctx context.Context, countries []models.Country, tags []models.Tag) (*models.Catalog, error) {
	s.seeded = false
	if _, err := s.pool.Exec(ctx, resetSQL); err != nil {
		return nil, fmt.Errorf("failed to reset schema: %w", err)
	}

	seededCountries := append([]models.Country(nil), countries...)
	seededTags := append([]models.Tag(nil), tags...)

	batch := &pgx.Batch{}
	for i := range seededCountries {
		body, err := json.Marshal(&seededCountries[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode country: %w", err)
		}
		batch.Queue("INSERT INTO "+countriesTable+" (data) VALUES ($1) RETURNING id", body)
	}
	for i := range seededTags {
		body, err := json.Marshal(&seededTags[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode tag: %w", err)
		}
		batch.Queue("INSERT INTO "+tagsTable+" (data) VALUES ($1) RETURNING id", body)
	}

	br := s.pool.SendBatch(ctx, batch)
	for i := range seededCountries {
		if err := br.QueryRow().Scan(&seededCountries[i].ID); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("failed to seed countries: %w", err)
		}
	}
	for i := range seededTags {
		if err := br.QueryRow().Scan(&seededTags[i].ID); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("failed to seed tags: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	s.seeded = true
	return models.NewCatalog(seededCountries, seededTags), nil
}

// Begin starts a transaction on a pooled connection.
func (s *Store) Begin(ctx context.Context) (store.Session[models.CompanyDocument], error) {
	if !s.seeded {
		return nil, store.ErrNotSeeded
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Session{tx: tx}, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Session is a pgx transaction.
type Session struct {
	tx   pgx.Tx
	done bool
}

// InsertOne inserts one document and sets its id.
func (s *Session) InsertOne(ctx context.Context, c *models.CompanyDocument) error {
	if s.done {
		return store.ErrSessionClosed
	}
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode company: %w", err)
	}
	if err := s.tx.QueryRow(ctx, "INSERT INTO "+companiesTable+" (data) VALUES ($1) RETURNING id", body).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// InsertMany reserves len(companies) ids and copies the documents in.
func (s *Session) InsertMany(ctx context.Context, companies []models.CompanyDocument) error {
	if s.done {
		return store.ErrSessionClosed
	}
	if len(companies) == 0 {
		return nil
	}

	rows, err := s.tx.Query(ctx,
		"SELECT nextval(pg_get_serial_sequence($1, 'id')) FROM generate_series(1, $2)",
		companiesTable, len(companies))
	if err != nil {
		return fmt.Errorf("failed to reserve ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("failed to reserve ids: %w", err)
	}
	if len(ids) != len(companies) {
		return fmt.Errorf("reserved %d ids for %d companies", len(ids), len(companies))
	}

	copyRows := make([][]any, len(companies))
	for i := range companies {
		companies[i].ID = ids[i]
		body, err := json.Marshal(&companies[i])
		if err != nil {
			return fmt.Errorf("failed to encode company: %w", err)
		}
		copyRows[i] = []any{ids[i], body}
	}

	n, err := s.tx.CopyFrom(ctx, pgx.Identifier{companiesTable}, []string{"id", "data"}, pgx.CopyFromRows(copyRows))
	if err != nil {
		return fmt.Errorf("failed to copy companies: %w", err)
	}
	if int(n) != len(companies) {
		return fmt.Errorf("copied %d of %d companies", n, len(companies))
	}
	return nil
}

// Query reads a page of companies ordered by name and resolves the requested
// includes in one batch.
func (s *Session) Query(ctx context.Context, q store.Query) (*store.Result[models.CompanyDocument], error) {
	if s.done {
		return nil, store.ErrSessionClosed
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.tx.Query(ctx,
		"SELECT id, data FROM "+companiesTable+" WHERE id > $1 ORDER BY data->>'name', id LIMIT $2",
		q.MinID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	companies, err := pgx.CollectRows(rows, scanDocument[models.CompanyDocument](func(c *models.CompanyDocument, id int64) { c.ID = id }))
	if err != nil {
		return nil, fmt.Errorf("failed to read companies: %w", err)
	}

	res := store.NewResult(companies)
	if err := s.resolveIncludes(ctx, q, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Session) resolveIncludes(ctx context.Context, q store.Query, res *store.Result[models.CompanyDocument]) error {
	var countryIDs, tagIDs []int64
	seenCountry := map[int64]struct{}{}
	seenTag := map[int64]struct{}{}
	for i := range res.Items {
		if q.Has(store.IncludeAddressCountries) {
			for _, id := range res.Items[i].CountryIDs() {
				if _, ok := seenCountry[id]; !ok {
					seenCountry[id] = struct{}{}
					countryIDs = append(countryIDs, id)
				}
			}
		}
		if q.Has(store.IncludeTags) {
			for _, id := range res.Items[i].Tags {
				if _, ok := seenTag[id]; !ok {
					seenTag[id] = struct{}{}
					tagIDs = append(tagIDs, id)
				}
			}
		}
	}
	if len(countryIDs) == 0 && len(tagIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	if len(countryIDs) > 0 {
		batch.Queue("SELECT id, data FROM "+countriesTable+" WHERE id = ANY($1)", countryIDs).
			Query(func(rows pgx.Rows) error {
				countries, err := pgx.CollectRows(rows, scanDocument[models.Country](func(c *models.Country, id int64) { c.ID = id }))
				if err != nil {
					return err
				}
				for _, c := range countries {
					res.Countries[c.ID] = c
				}
				return nil
			})
	}
	if len(tagIDs) > 0 {
		batch.Queue("SELECT id, data FROM "+tagsTable+" WHERE id = ANY($1)", tagIDs).
			Query(func(rows pgx.Rows) error {
				tags, err := pgx.CollectRows(rows, scanDocument[models.Tag](func(t *models.Tag, id int64) { t.ID = id }))
				if err != nil {
					return err
				}
				for _, t := range tags {
					res.Tags[t.ID] = t
				}
				return nil
			})
	}
	if err := s.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to resolve includes: %w", err)
	}
	return nil
}

// scanDocument decodes an (id, data) row into a T and stamps the id.
func scanDocument[T any](setID func(*T, int64)) pgx.RowToFunc[T] {
	return func(row pgx.CollectableRow) (T, error) {
		var (
			v    T
			id   int64
			body []byte
		)
		if err := row.Scan(&id, &body); err != nil {
			return v, err
		}
		if err := json.Unmarshal(body, &v); err != nil {
			return v, fmt.Errorf("failed to decode document %d: %w", id, err)
		}
		setID(&v, id)
		return v, nil
	}
}

// Commit commits the transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.done {
		return store.ErrSessionClosed
	}
	s.done = true
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close rolls back the transaction unless it was committed.
func (s *Session) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	return nil
}
