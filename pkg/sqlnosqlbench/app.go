package sqlnosqlbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/fake"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/harness"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/models"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/document"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/relational"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/store/surrealdb"
)

// App holds the targets selected by the configuration.
type App struct {
	config  *Config
	log     zerolog.Logger
	out     io.Writer
	targets []bench.Target
}

// New connects every selected target.
//
// A target that cannot connect does not fail New: it is kept as a target
// whose setup returns the connection error, so the commands report it
// alongside the targets that did connect.
func New(ctx context.Context, config *Config, log zerolog.Logger) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	out := config.Out
	if out == nil {
		out = io.Discard
	}

	app := &App{config: config, log: log, out: out}
	for _, name := range config.Targets {
		t, err := app.openTarget(ctx, name)
		if err != nil {
			log.Error().Err(err).Str("target", name).Msg("failed to connect")
			t = &unavailable{name: name, err: err}
		} else {
			log.Info().Str("target", name).Msg("connected")
		}
		app.targets = append(app.targets, &closeOnce{Target: t})
	}
	return app, nil
}

func (a *App) openTarget(ctx context.Context, name string) (bench.Target, error) {
	opts := a.config.Bench
	storeLog := a.log.With().Str("target", name).Logger()

	switch name {
	case relational.Name:
		s, err := relational.Open(a.config.RelationalConnectionString,
			relational.WithBatchSize(opts.BatchSize),
			relational.WithLogger(storeLog),
		)
		if err != nil {
			return nil, err
		}
		return bench.NewTarget(store.WithLogging[models.Company](s, storeLog), fake.RelationalBuilder, opts), nil
	case document.Name:
		s, err := document.Open(ctx, a.config.ConnectionString)
		if err != nil {
			return nil, err
		}
		return bench.NewTarget(store.WithLogging[models.CompanyDocument](s, storeLog), fake.DocumentBuilder, opts), nil
	case surrealdb.Name:
		s, err := surrealdb.Open(ctx, a.config.SurrealDB)
		if err != nil {
			return nil, err
		}
		return bench.NewTarget(store.WithLogging[models.CompanyDocument](s, storeLog), fake.DocumentBuilder, opts), nil
	default:
		return nil, fmt.Errorf("unknown target %q", name)
	}
}

// Targets returns the targets in configuration order.
func (a *App) Targets() []bench.Target {
	return a.targets
}

// Run performs every operation once against each target. A failing target
// does not stop the others; the failures are returned joined.
func (a *App) Run(ctx context.Context, _ RunCommand) error {
	var errs []error
	for _, t := range a.targets {
		if _, err := bench.RunOnce(ctx, t, a.out); err != nil {
			fmt.Fprintf(a.out, "** ABORTED ** %s: %v\n", t.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

// Bench runs the statistical harness, renders the report and saves it.
func (a *App) Bench(ctx context.Context, cmd BenchCommand) (*harness.Report, error) {
	h := harness.New(a.config.Harness, a.log)
	report := h.Run(ctx, a.targets)
	report.Render(a.out)

	if !cmd.NoSave && len(report.Rows) > 0 {
		path, err := report.SaveCSV(h.Config().ResultDir)
		if err != nil {
			return report, err
		}
		fmt.Fprintf(a.out, "results saved to %s\n", path)
	}

	if report.AllAborted() {
		return report, fmt.Errorf("all %d targets aborted", len(report.Aborted))
	}
	return report, nil
}

// Reset recreates the schema of each target and seeds reference data.
func (a *App) Reset(ctx context.Context, _ ResetCommand) error {
	var errs []error
	for _, t := range a.targets {
		if err := t.Setup(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}
		fmt.Fprintf(a.out, "%s: reset and seeded\n", t.Name())
	}
	return errors.Join(errs...)
}

// Close closes every target that is still open.
func (a *App) Close() error {
	var errs []error
	for _, t := range a.targets {
		if err := t.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// closeOnce lets both the harness and App.Close close a target.
type closeOnce struct {
	bench.Target
	once sync.Once
	err  error
}

func (c *closeOnce) Close() error {
	c.once.Do(func() {
		c.err = c.Target.Close()
	})
	return c.err
}

// unavailable stands in for a target that failed to connect.
type unavailable struct {
	name string
	err  error
}

func (u *unavailable) Name() string { return u.name }

func (u *unavailable) Setup(context.Context) error {
	return fmt.Errorf("connect: %w", u.err)
}

func (u *unavailable) Insert(context.Context) (bench.Measurement, error) {
	return bench.Measurement{}, bench.ErrNotSetUp
}

func (u *unavailable) InsertBatch(context.Context) (bench.Measurement, error) {
	return bench.Measurement{}, bench.ErrNotSetUp
}

func (u *unavailable) SelectWithIncludes(context.Context) (bench.Measurement, error) {
	return bench.Measurement{}, bench.ErrNotSetUp
}

func (u *unavailable) Close() error { return nil }
