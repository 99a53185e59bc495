package sqlnosqlbench

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/harness"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/logger"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/document"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/relational"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/surrealdb"
)

// ErrMissingConnectionString is returned when a selected target has no
// connection string.
var ErrMissingConnectionString = errors.New("missing connection string: set CONNECTIONSTRING")

// DefaultTargets are the targets benchmarked when BENCH_TARGETS is unset.
var DefaultTargets = []string{document.Name, relational.Name}

// Config holds application configuration, read from the environment.
type Config struct {
	// ConnectionString is the PostgreSQL DSN of the document target and,
	// unless RelationalConnectionString is set, of the relational target.
	ConnectionString           string
	RelationalConnectionString string

	SurrealDB surrealdb.Config

	// Targets lists the stores to benchmark, in order.
	Targets []string

	Bench   bench.Options
	Harness harness.Config

	LogLevel  string
	LogFormat string
	LogFile   string

	// Out receives reports. Not read from the environment.
	Out io.Writer
}

// LoadConfig reads the configuration from the environment, after loading
// the nearest .env file above the working directory, if there is one.
// Variables already set in the environment win over the .env file.
func LoadConfig() (*Config, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConnectionString: os.Getenv("CONNECTIONSTRING"),
		SurrealDB: surrealdb.Config{
			URL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
			Namespace: getEnv("SURREALDB_NS", "sqlnosqlbench"),
			Database:  getEnv("SURREALDB_DB", "sqlnosqlbench"),
			Username:  getEnv("SURREALDB_USER", "root"),
			Password:  getEnv("SURREALDB_PASS", "root"),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", logger.FormatConsole),
		LogFile:   os.Getenv("LOG_FILE"),
		Out:       os.Stdout,
	}
	cfg.RelationalConnectionString = getEnv("RELATIONAL_CONNECTIONSTRING", cfg.ConnectionString)

	targets, err := parseTargets(getEnv("BENCH_TARGETS", strings.Join(DefaultTargets, ",")))
	if err != nil {
		return nil, err
	}
	cfg.Targets = targets

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg.Bench = bench.DefaultOptions()
	cfg.Bench.Graphs, err = getEnvInt("BENCH_GRAPHS", bench.DefaultGraphs)
	collect(err)
	cfg.Bench.QueryLimit, err = getEnvInt("BENCH_QUERY_LIMIT", bench.DefaultQueryLimit)
	collect(err)
	cfg.Bench.BatchSize, err = getEnvInt("BENCH_BATCH_SIZE", bench.DefaultBatchSize)
	collect(err)
	cfg.Bench.Seed, err = getEnvUint64("BENCH_SEED", 0)
	collect(err)

	cfg.Harness = harness.DefaultConfig()
	cfg.Harness.MinTrials, err = getEnvInt("BENCH_MIN_TRIALS", harness.MinTrials)
	collect(err)
	cfg.Harness.MaxTrials, err = getEnvInt("BENCH_MAX_TRIALS", harness.MaxTrials)
	collect(err)
	cfg.Harness.CVThreshold, err = getEnvFloat("BENCH_CV", harness.CVThreshold)
	collect(err)
	cfg.Harness.MaxDuration, err = getEnvDuration("BENCH_MAX_DURATION", harness.MaxDuration)
	collect(err)
	cfg.Harness.ResultDir = getEnv("BENCH_RESULT_DIR", harness.DefaultResultDir)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every selected target can be connected.
func (c *Config) Validate() error {
	for _, t := range c.Targets {
		switch t {
		case document.Name:
			if c.ConnectionString == "" {
				return fmt.Errorf("%s: %w", t, ErrMissingConnectionString)
			}
		case relational.Name:
			if c.RelationalConnectionString == "" {
				return fmt.Errorf("%s: %w", t, ErrMissingConnectionString)
			}
		case surrealdb.Name:
			if c.SurrealDB.URL == "" {
				return fmt.Errorf("%s: SURREALDB_URL is empty", t)
			}
		default:
			return fmt.Errorf("unknown target %q", t)
		}
	}
	return nil
}

func parseTargets(s string) ([]string, error) {
	var targets []string
	seen := map[string]bool{}
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		switch t {
		case document.Name, relational.Name, surrealdb.Name:
		default:
			return nil, fmt.Errorf("unknown target %q in BENCH_TARGETS (valid: %s, %s, %s)", t, document.Name, relational.Name, surrealdb.Name)
		}
		seen[t] = true
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("BENCH_TARGETS selects no target")
	}
	return targets, nil
}

// loadDotEnv loads the first .env file found walking up from the working
// directory.
func loadDotEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return nil
	}
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			return nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvUint64(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
