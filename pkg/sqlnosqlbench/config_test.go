package sqlnosqlbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/harness"
)

var benchEnv = []string{
	"CONNECTIONSTRING", "RELATIONAL_CONNECTIONSTRING",
	"SURREALDB_URL", "SURREALDB_NS", "SURREALDB_DB", "SURREALDB_USER", "SURREALDB_PASS",
	"BENCH_TARGETS", "BENCH_GRAPHS", "BENCH_QUERY_LIMIT", "BENCH_BATCH_SIZE", "BENCH_SEED",
	"BENCH_MIN_TRIALS", "BENCH_MAX_TRIALS", "BENCH_CV", "BENCH_MAX_DURATION", "BENCH_RESULT_DIR",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
}

// clearEnv blanks every variable the configuration reads. Empty values
// count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range benchEnv {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONNECTIONSTRING", "postgres://bench@localhost/bench")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"document", "relational"}, cfg.Targets)
	assert.Equal(t, "postgres://bench@localhost/bench", cfg.RelationalConnectionString)
	assert.Equal(t, bench.DefaultGraphs, cfg.Bench.Graphs)
	assert.Equal(t, bench.DefaultQueryLimit, cfg.Bench.QueryLimit)
	assert.Equal(t, bench.DefaultBatchSize, cfg.Bench.BatchSize)
	assert.Zero(t, cfg.Bench.Seed)
	assert.Equal(t, harness.MinTrials, cfg.Harness.MinTrials)
	assert.Equal(t, harness.CVThreshold, cfg.Harness.CVThreshold)
	assert.Equal(t, harness.MaxDuration, cfg.Harness.MaxDuration)
	assert.Equal(t, "ws://localhost:8000/rpc", cfg.SurrealDB.URL)
	assert.Equal(t, "sqlnosqlbench", cfg.SurrealDB.Namespace)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONNECTIONSTRING", "postgres://bench@localhost/bench")
	t.Setenv("RELATIONAL_CONNECTIONSTRING", "sqlite:bench.db")
	t.Setenv("BENCH_TARGETS", " Relational, surrealdb ,relational")
	t.Setenv("BENCH_GRAPHS", "250")
	t.Setenv("BENCH_QUERY_LIMIT", "0")
	t.Setenv("BENCH_SEED", "42")
	t.Setenv("BENCH_CV", "0.02")
	t.Setenv("BENCH_MAX_DURATION", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"relational", "surrealdb"}, cfg.Targets)
	assert.Equal(t, "sqlite:bench.db", cfg.RelationalConnectionString)
	assert.Equal(t, 250, cfg.Bench.Graphs)
	assert.Equal(t, 0, cfg.Bench.QueryLimit)
	assert.Equal(t, uint64(42), cfg.Bench.Seed)
	assert.Equal(t, 0.02, cfg.Harness.CVThreshold)
	assert.Equal(t, 90*time.Second, cfg.Harness.MaxDuration)
}

func TestLoadConfigMissingConnectionString(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrMissingConnectionString)

	// SurrealDB alone needs no PostgreSQL.
	t.Setenv("BENCH_TARGETS", "surrealdb")
	_, err = LoadConfig()
	require.NoError(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"BENCH_GRAPHS", "many", "BENCH_GRAPHS"},
		{"BENCH_SEED", "-1", "BENCH_SEED"},
		{"BENCH_CV", "low", "BENCH_CV"},
		{"BENCH_MAX_DURATION", "10", "BENCH_MAX_DURATION"},
		{"BENCH_TARGETS", "mongodb", "unknown target"},
		{"BENCH_TARGETS", " , ", "no target"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONNECTIONSTRING", "postgres://bench@localhost/bench")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
