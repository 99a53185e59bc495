package sqlnosqlbench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/harness"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/relational"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/surrealdb"
)

// sqliteConfig targets only the relational store, on an in-memory SQLite
// database private to the test.
func sqliteConfig(t *testing.T) (*Config, *bytes.Buffer) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	var out bytes.Buffer

	h := harness.DefaultConfig()
	h.MinTrials = 2
	h.MaxTrials = 3
	h.MaxDuration = time.Minute
	h.ResultDir = t.TempDir()

	return &Config{
		RelationalConnectionString: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		Targets:                    []string{relational.Name},
		Bench:                      bench.Options{Graphs: 30, QueryLimit: 10, BatchSize: 10, Seed: 5},
		Harness:                    h,
		Out:                        &out,
	}, &out
}

func newApp(t *testing.T, cfg *Config) *App {
	t.Helper()
	app, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestAppRun(t *testing.T) {
	cfg, out := sqliteConfig(t)
	app := newApp(t, cfg)

	require.NoError(t, app.Run(context.Background(), RunCommand{}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1+len(bench.Operations()))
	assert.Equal(t, "relational: seeded", lines[0])
	for i, op := range bench.Operations() {
		assert.Contains(t, lines[i+1], string(op))
	}
	assert.Contains(t, lines[1], "30 companies")
	assert.Contains(t, lines[3], "10 companies")
}

func TestAppBench(t *testing.T) {
	cfg, out := sqliteConfig(t)
	cfg.Harness.SessionID = "app-bench"
	app := newApp(t, cfg)

	report, err := app.Bench(context.Background(), BenchCommand{})
	require.NoError(t, err)
	require.Len(t, report.Rows, len(bench.Operations()))
	assert.Empty(t, report.Aborted)
	for _, row := range report.Rows {
		assert.Equal(t, relational.Name, row.Target)
		assert.GreaterOrEqual(t, row.Trials, 2)
		assert.LessOrEqual(t, row.Trials, 3)
	}

	path := report.ResultFile(cfg.Harness.ResultDir)
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "results saved to "+path)

	// The harness closed the target already; closing again is harmless.
	require.NoError(t, app.Close())
}

func TestAppBenchNoSave(t *testing.T) {
	cfg, _ := sqliteConfig(t)
	cfg.Harness.SessionID = "no-save"
	app := newApp(t, cfg)

	report, err := app.Bench(context.Background(), BenchCommand{NoSave: true})
	require.NoError(t, err)
	assert.NoFileExists(t, report.ResultFile(cfg.Harness.ResultDir))
}

func TestAppUnavailableTarget(t *testing.T) {
	cfg, out := sqliteConfig(t)
	cfg.Targets = []string{surrealdb.Name}
	cfg.SurrealDB = surrealdb.Config{URL: "ws://127.0.0.1:1/rpc", Namespace: "ns", Database: "db"}
	app := newApp(t, cfg)
	require.Len(t, app.Targets(), 1)

	report, err := app.Bench(context.Background(), BenchCommand{})
	require.Error(t, err)
	require.Len(t, report.Aborted, 1)
	assert.Equal(t, surrealdb.Name, report.Aborted[0].Target)
	assert.Contains(t, out.String(), "** ABORTED ** surrealdb")
	assert.NoFileExists(t, report.ResultFile(cfg.Harness.ResultDir))

	out.Reset()
	require.Error(t, app.Run(context.Background(), RunCommand{}))
	assert.Contains(t, out.String(), "** ABORTED ** surrealdb")
}

func TestAppReset(t *testing.T) {
	cfg, out := sqliteConfig(t)
	app := newApp(t, cfg)

	require.NoError(t, app.Reset(context.Background(), ResetCommand{}))
	assert.Equal(t, "relational: reset and seeded\n", out.String())
}

func TestAppRunCancelled(t *testing.T) {
	cfg, _ := sqliteConfig(t)
	app := newApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, app.Run(ctx, RunCommand{}))
}

func TestMainEntryPoint(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("RELATIONAL_CONNECTIONSTRING", "file:main_test?mode=memory&cache=shared")
	t.Setenv("BENCH_TARGETS", "relational")
	t.Setenv("BENCH_GRAPHS", "10")
	t.Setenv("BENCH_QUERY_LIMIT", "5")
	t.Setenv("BENCH_MIN_TRIALS", "2")
	t.Setenv("BENCH_MAX_TRIALS", "2")
	t.Setenv("BENCH_RESULT_DIR", dir)
	t.Setenv("LOG_FILE", dir+"/bench.log")
	t.Setenv("LOG_LEVEL", "debug")

	ctx := context.Background()
	require.NoError(t, Main(ctx, []string{"reset"}))
	require.NoError(t, Main(ctx, []string{"bench", "--session", "main"}))
	assert.FileExists(t, dir+"/main.csv")

	logs, err := os.ReadFile(dir + "/bench.log")
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"store":"relational"`)
	assert.Contains(t, string(logs), `"op":"reset_and_seed"`)
}
