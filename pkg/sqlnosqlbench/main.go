package sqlnosqlbench

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/logger"
)

// Main is the entry point of the sqlnosqlbench command.
//
// It parses args on top of the environment, connects the selected targets
// and runs the selected command. It can be called from tests without
// building the binary; cancelling ctx stops the run between trials.
//
// # Command Line Usage
//
//	sqlnosqlbench run      # one pass of every operation, one line each
//	sqlnosqlbench bench    # statistical harness, table and CSV report
//	sqlnosqlbench reset    # recreate schemas and seed reference data
//
// # Environment Variables
//
//	CONNECTIONSTRING             - PostgreSQL DSN of the document and relational targets
//	RELATIONAL_CONNECTIONSTRING  - DSN of the relational target (default: CONNECTIONSTRING);
//	                               "sqlite:" and "file:" DSNs select SQLite
//	SURREALDB_URL                - SurrealDB RPC URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS, SURREALDB_DB   - SurrealDB namespace and database (default: sqlnosqlbench)
//	SURREALDB_USER, SURREALDB_PASS
//	BENCH_TARGETS                - comma separated targets (default: document,relational)
//	BENCH_GRAPHS                 - companies per insert operation (default: 1000)
//	BENCH_QUERY_LIMIT            - rows per query; 0 is random per query (default: 150)
//	BENCH_BATCH_SIZE             - bulk insert chunk size (default: 100)
//	BENCH_SEED                   - fake data seed; 0 seeds from entropy
//	BENCH_MIN_TRIALS, BENCH_MAX_TRIALS, BENCH_CV, BENCH_MAX_DURATION, BENCH_RESULT_DIR
//	LOG_LEVEL, LOG_FORMAT, LOG_FILE
//
// A .env file in the working directory or any parent is loaded first.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	if cmd == nil {
		// help only
		return nil
	}

	build := logger.New().WithLevel(config.LogLevel).WithFormat(config.LogFormat)
	if config.LogFile != "" {
		build = build.FromPath(config.LogFile)
	}
	logData, err := build.Make()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logData.Close()
	log := logData.Logger.With().Str("command", cmd.Name()).Logger()

	app, err := New(ctx, config, log)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close targets")
		}
	}()

	switch c := cmd.(type) {
	case RunCommand:
		return app.Run(ctx, c)
	case BenchCommand:
		_, err := app.Bench(ctx, c)
		return err
	case ResetCommand:
		return app.Reset(ctx, c)
	default:
		return fmt.Errorf("unknown command: %s", cmd.Name())
	}
}
