package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/internal/memstore"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
)

func TestQueryValidate(t *testing.T) {
	require.NoError(t, store.SelectWithIncludes(150).Validate())
	require.Error(t, store.SelectWithIncludes(0).Validate())
	require.Error(t, store.Query{Limit: 1, Includes: []store.Include{"addresses"}}.Validate())
}

func TestQueryHas(t *testing.T) {
	q := store.SelectWithIncludes(10)
	assert.True(t, q.Has(store.IncludeTags))
	assert.True(t, q.Has(store.IncludeAddressCountries))
	assert.False(t, store.Query{Limit: 1}.Has(store.IncludeTags))
}

func TestWithLoggingLogsOperations(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	log := zerolog.New(buf).Level(zerolog.DebugLevel)

	mem := memstore.New()
	s := store.WithLogging[models.CompanyDocument](mem, log)
	assert.Equal(t, "memory", s.Name())

	catalog, err := s.ResetAndSeed(ctx, []models.Country{{Code: "DE", Name: "Germany"}}, []models.Tag{{Code: "AAAAA", Name: "Lamp"}})
	require.NoError(t, err)

	sess, err := s.Begin(ctx)
	require.NoError(t, err)
	docs := []models.CompanyDocument{{
		Name:      "Acme",
		Addresses: []models.AddressDocument{{CountryID: catalog.CountryIDs()[0]}},
		Tags:      catalog.TagIDs(),
	}}
	require.NoError(t, sess.InsertMany(ctx, docs))
	require.NoError(t, sess.Commit(ctx))
	require.NoError(t, sess.Close())

	sess, err = s.Begin(ctx)
	require.NoError(t, err)
	res, err := sess.Query(ctx, store.SelectWithIncludes(5))
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.Len(t, res.Items, 1)

	out := buf.String()
	for _, op := range []string{"reset_and_seed", "begin", "insert_many", "commit", "release", "query"} {
		assert.Contains(t, out, `"op":"`+op+`"`)
	}
	assert.Contains(t, out, `"store":"memory"`)
	assert.Contains(t, out, `"count":1`)
}

func TestWithLoggingLogsErrors(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	log := zerolog.New(buf).Level(zerolog.InfoLevel)

	mem := memstore.New()
	boom := errors.New("boom")
	mem.Fail["reset"] = boom

	s := store.WithLogging[models.CompanyDocument](mem, log)
	_, err := s.ResetAndSeed(ctx, nil, nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestBeginBeforeSeed(t *testing.T) {
	_, err := memstore.New().Begin(context.Background())
	require.ErrorIs(t, err, store.ErrNotSeeded)
}

func TestUnwrap(t *testing.T) {
	mem := memstore.New()
	s := store.WithLogging[models.CompanyDocument](mem, zerolog.Nop())
	ls, ok := s.(*store.LoggingStore[models.CompanyDocument])
	require.True(t, ok)
	assert.Same(t, mem, ls.Unwrap())
}
