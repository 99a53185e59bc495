// Package relational implements [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store.Store]
// for the relational access pattern using GORM.
//
// # Schema
//
// Graphs are normalized into five tables that GORM derives from
// [github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models]:
//   - countries and tags: reference rows seeded once per session
//   - companies: one row per company
//   - addresses: one row per address with company_id and country_id foreign keys
//   - company_tags: the many-to-many join between companies and tags
//
// [Store.ResetAndSeed] drops all five tables and recreates them with AutoMigrate,
// so nothing from a previous run survives.
//
// # Dialects
//
// [Open] picks the dialector from the DSN. "sqlite:" and "file:" DSNs use
// SQLite, which lets the benchmark and its tests run in process; everything
// else is handed to the PostgreSQL driver. SQLite connections are limited to
// one so that in-memory databases stay shared between statements.
//
// # Units of Work
//
// Every [Session] is a database transaction. Inserts attach existing tags
// without upserting them (Omit("Tags.*")), addresses are created with their
// company, and queries run inside the same transaction so they see the
// session's own writes.
package relational

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// Name identifies the relational store in reports.
	Name = "relational"

	joinTable        = "company_tags"
	defaultBatchSize = 100
)

// Store persists relational company graphs through GORM.
type Store struct {
	db        *gorm.DB
	batchSize int
	seeded    bool
}

var _ store.Store[models.Company] = (*Store)(nil)

type config struct {
	batchSize int
	log       zerolog.Logger
}

// Option configures [Open].
type Option func(*config)

// WithBatchSize sets the number of rows per INSERT statement on the bulk path.
func WithBatchSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithLogger routes GORM's SQL logging to log.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// Open connects to the database named by dsn.
func Open(dsn string, opts ...Option) (*Store, error) {
	cfg := config{batchSize: defaultBatchSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	dialector, isSQLite := dialectorFor(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewLogger(cfg.log),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &Store{db: db, batchSize: cfg.batchSize}, nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), true
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), true
	default:
		return postgres.Open(dsn), false
	}
}

// Name returns "relational".
func (s *Store) Name() string {
	return Name
}

// ResetAndSeed drops and recreates the schema, then inserts countries and tags.
func (s *Store) ResetAndSeed(ctx context.Context, countries []models.Country, tags []models.Tag) (*models.Catalog, error) {
	db := s.db.WithContext(ctx)
	s.seeded = false

	// The join table has no model of its own.
	if err := db.Exec("DROP TABLE IF EXISTS " + joinTable).Error; err != nil {
		return nil, fmt.Errorf("failed to drop %s: %w", joinTable, err)
	}
	if err := db.Migrator().DropTable(&models.Address{}, &models.Company{}, &models.Country{}, &models.Tag{}); err != nil {
		return nil, fmt.Errorf("failed to drop tables: %w", err)
	}
	if err := db.AutoMigrate(&models.Country{}, &models.Tag{}, &models.Company{}, &models.Address{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	seededCountries := clearIDs(countries, func(c *models.Country) { c.ID = 0 })
	seededTags := clearIDs(tags, func(t *models.Tag) { t.ID = 0 })

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(seededCountries) > 0 {
			if err := tx.Create(&seededCountries).Error; err != nil {
				return fmt.Errorf("failed to seed countries: %w", err)
			}
		}
		if len(seededTags) > 0 {
			if err := tx.Create(&seededTags).Error; err != nil {
				return fmt.Errorf("failed to seed tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.seeded = true
	return models.NewCatalog(seededCountries, seededTags), nil
}

// clearIDs copies items and resets their ids so the database assigns them.
func clearIDs[T any](items []T, clear func(*T)) []T {
	out := append([]T(nil), items...)
	for i := range out {
		clear(&out[i])
	}
	return out
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (store.Session[models.Company], error) {
	if !s.seeded {
		return nil, store.ErrNotSeeded
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &Session{tx: tx, batchSize: s.batchSize}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Session is a GORM transaction.
type Session struct {
	tx        *gorm.DB
	batchSize int
	done      bool
}

// InsertOne creates the company with its addresses and links its tags.
func (s *Session) InsertOne(ctx context.Context, c *models.Company) error {
	if s.done {
		return store.ErrSessionClosed
	}
	if err := s.tx.WithContext(ctx).Omit("Tags.*").Create(c).Error; err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// InsertMany creates companies in batches of the configured size.
func (s *Session) InsertMany(ctx context.Context, companies []models.Company) error {
	if s.done {
		return store.ErrSessionClosed
	}
	if len(companies) == 0 {
		return nil
	}
	if err := s.tx.WithContext(ctx).Omit("Tags.*").CreateInBatches(&companies, s.batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert companies: %w", err)
	}
	return nil
}

// Query loads companies with Preload for each include.
func (s *Session) Query(ctx context.Context, q store.Query) (*store.Result[models.Company], error) {
	if s.done {
		return nil, store.ErrSessionClosed
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	db := s.tx.WithContext(ctx).Where("id > ?", q.MinID)
	if q.Has(store.IncludeAddressCountries) {
		db = db.Preload("Addresses.Country")
	} else {
		db = db.Preload("Addresses")
	}
	if q.Has(store.IncludeTags) {
		db = db.Preload("Tags")
	}

	var companies []models.Company
	if err := db.Order("name").Limit(q.Limit).Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}

	res := store.NewResult(companies)
	for _, c := range companies {
		for _, a := range c.Addresses {
			if a.Country != nil {
				res.Countries[a.Country.ID] = *a.Country
			}
		}
		for _, t := range c.Tags {
			res.Tags[t.ID] = t
		}
	}
	return res, nil
}

// Commit commits the transaction.
func (s *Session) Commit(context.Context) error {
	if s.done {
		return store.ErrSessionClosed
	}
	s.done = true
	if err := s.tx.Commit().Error; err != nil {
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
	if err := s.tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	return nil
}
