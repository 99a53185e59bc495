// Package harness repeats benchmark operations until their timings are
// statistically stable and reports the targets side by side.
//
// For every target the harness runs Setup once, then, operation by
// operation, repeats trials until one of these holds:
//   - at least MinTrials trials ran and the coefficient of variation
//     (stddev / mean) dropped below CVThreshold
//   - MaxTrials trials ran
//   - MaxDuration elapsed for the operation
//
// A failing Setup or trial aborts that target only. The failure is recorded
// in the [Report] and the harness moves on to the next target.
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/surrealdb/surrealdb.go/contrib/sqlnosqlbench/pkg/bench"
)

const (
	MinTrials        = 5
	MaxTrials        = 100
	CVThreshold      = 0.05
	MaxDuration      = 10 * time.Minute
	DefaultResultDir = "."
)

// Config controls trial repetition and where results are written.
type Config struct {
	MinTrials   int
	MaxTrials   int
	CVThreshold float64
	// MaxDuration bounds the trials of one operation of one target.
	MaxDuration time.Duration
	ResultDir   string
	// SessionID names the result file. A random UUID is used when empty.
	SessionID string
}

// DefaultConfig returns the default stopping rules.
func DefaultConfig() Config {
	return Config{
		MinTrials:   MinTrials,
		MaxTrials:   MaxTrials,
		CVThreshold: CVThreshold,
		MaxDuration: MaxDuration,
		ResultDir:   DefaultResultDir,
	}
}

// Status tells why trials of an operation stopped.
type Status string

const (
	StatusConverged Status = "converged"
	StatusMaxTrials Status = "max trials"
	StatusTimedOut  Status = "timed out"
)

// Harness runs targets.
type Harness struct {
	cfg Config
	log zerolog.Logger
}

// New returns a Harness. Unset fields of cfg take their defaults.
func New(cfg Config, log zerolog.Logger) *Harness {
	d := DefaultConfig()
	if cfg.MinTrials <= 0 {
		cfg.MinTrials = d.MinTrials
	}
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = d.MaxTrials
	}
	if cfg.MaxTrials < cfg.MinTrials {
		cfg.MaxTrials = cfg.MinTrials
	}
	if cfg.CVThreshold <= 0 {
		cfg.CVThreshold = d.CVThreshold
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = d.MaxDuration
	}
	if cfg.ResultDir == "" {
		cfg.ResultDir = d.ResultDir
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	return &Harness{cfg: cfg, log: log}
}

// Config returns the effective configuration.
func (h *Harness) Config() Config {
	return h.cfg
}

// Run benchmarks every target in order and closes it afterwards.
func (h *Harness) Run(ctx context.Context, targets []bench.Target) *Report {
	report := &Report{SessionID: h.cfg.SessionID, Started: time.Now()}
	h.log.Info().
		Str("session", h.cfg.SessionID).
		Int("targets", len(targets)).
		Int("min_trials", h.cfg.MinTrials).
		Int("max_trials", h.cfg.MaxTrials).
		Float64("cv_threshold", h.cfg.CVThreshold).
		Dur("max_duration", h.cfg.MaxDuration).
		Msg("starting benchmark")

	for _, t := range targets {
		rows, err := h.runTarget(ctx, t)
		report.Rows = append(report.Rows, rows...)
		if err != nil {
			h.log.Error().Err(err).Str("target", t.Name()).Msg("target aborted")
			report.Aborted = append(report.Aborted, Aborted{Target: t.Name(), Err: err})
		}
		if cerr := t.Close(); cerr != nil {
			h.log.Warn().Err(cerr).Str("target", t.Name()).Msg("failed to close target")
		}
	}

	report.Finished = time.Now()
	return report
}

func (h *Harness) runTarget(ctx context.Context, t bench.Target) ([]Row, error) {
	if err := t.Setup(ctx); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	h.log.Info().Str("target", t.Name()).Msg("seeded")

	var rows []Row
	for _, op := range bench.Operations() {
		row, err := h.runOperation(ctx, t, op)
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (h *Harness) runOperation(ctx context.Context, t bench.Target, op bench.Operation) (Row, error) {
	stats := NewStats()
	key := string(op)
	start := time.Now()
	var last bench.Measurement

	status := StatusMaxTrials
	for i := 1; i <= h.cfg.MaxTrials; i++ {
		if err := ctx.Err(); err != nil {
			return Row{}, err
		}
		m, err := bench.Run(ctx, t, op)
		if err != nil {
			return Row{}, fmt.Errorf("trial %d: %w", i, err)
		}
		stats.Add(key, m.Elapsed)
		last = m

		if i >= h.cfg.MinTrials && stats.IsCVSufficient(key, h.cfg.CVThreshold) {
			status = StatusConverged
			break
		}
		if time.Since(start) >= h.cfg.MaxDuration {
			status = StatusTimedOut
			break
		}
	}

	mean, stddev, n := stats.Calculate(key)
	row := Row{
		Target:    t.Name(),
		Operation: op,
		MeanMS:    mean,
		StdDevMS:  stddev,
		CV:        stats.CV(key),
		Trials:    n,
		Count:     last.Count,
		Status:    status,
		Samples:   stats.Trials(key),
	}
	h.log.Info().
		Str("target", row.Target).
		Str("op", string(op)).
		Float64("mean_ms", mean).
		Float64("stddev_ms", stddev).
		Int("trials", n).
		Str("status", string(status)).
		Msg("operation done")
	return row, nil
}
