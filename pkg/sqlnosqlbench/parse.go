package sqlnosqlbench

import (
	"strings"

	"github.com/spf13/cobra"
)

// Parse parses command line arguments on top of the environment
// configuration and returns the selected command.
//
// Flags override the matching environment variables. When only help was
// requested, the returned command is nil and the error is nil.
func Parse(args []string) (Command, *Config, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, nil, err
	}

	var selected Command
	root := newRootCommand(cfg, &selected)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return nil, nil, err
	}
	return selected, cfg, nil
}

func newRootCommand(cfg *Config, selected *Command) *cobra.Command {
	var targets []string

	root := &cobra.Command{
		Use:   "sqlnosqlbench",
		Short: "Compare relational and document persistence of the same fake company graphs",
		Long: `sqlnosqlbench inserts and queries synthetic company graphs through a
relational ORM mapping and through document stores, and reports how long
each access pattern takes.

Connections are read from the environment (CONNECTIONSTRING,
RELATIONAL_CONNECTIONSTRING, SURREALDB_URL, ...) or a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("targets") {
				parsed, err := parseTargets(strings.Join(targets, ","))
				if err != nil {
					return err
				}
				cfg.Targets = parsed
			}
			return cfg.Validate()
		},
	}
	root.SetOut(cfg.Out)

	flags := root.PersistentFlags()
	flags.StringSliceVar(&targets, "targets", cfg.Targets, "targets to benchmark (document, relational, surrealdb)")
	flags.IntVar(&cfg.Bench.Graphs, "graphs", cfg.Bench.Graphs, "companies per insert operation")
	flags.IntVar(&cfg.Bench.QueryLimit, "query-limit", cfg.Bench.QueryLimit, "rows per query; 0 draws a random limit per query")
	flags.IntVar(&cfg.Bench.BatchSize, "batch-size", cfg.Bench.BatchSize, "chunk size of bulk inserts")
	flags.Uint64Var(&cfg.Bench.Seed, "seed", cfg.Bench.Seed, "fake data seed; 0 seeds from entropy")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file instead of stderr")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run every operation once against each target",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			*selected = RunCommand{}
			return nil
		},
	}

	var bench BenchCommand
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Repeat every operation until its timings converge and report the statistics",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			*selected = bench
			return nil
		},
	}
	bf := benchCmd.Flags()
	bf.IntVar(&cfg.Harness.MinTrials, "min-trials", cfg.Harness.MinTrials, "trials before convergence is checked")
	bf.IntVar(&cfg.Harness.MaxTrials, "max-trials", cfg.Harness.MaxTrials, "trial cap per operation")
	bf.Float64Var(&cfg.Harness.CVThreshold, "cv", cfg.Harness.CVThreshold, "coefficient of variation that counts as converged")
	bf.DurationVar(&cfg.Harness.MaxDuration, "max-duration", cfg.Harness.MaxDuration, "time budget per operation")
	bf.StringVar(&cfg.Harness.ResultDir, "result-dir", cfg.Harness.ResultDir, "directory of the CSV result file")
	bf.StringVar(&cfg.Harness.SessionID, "session", cfg.Harness.SessionID, "session id naming the result file; random when empty")
	bf.BoolVar(&bench.NoSave, "no-save", false, "do not write the CSV result file")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Recreate the schema of each target and seed reference data",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			*selected = ResetCommand{}
			return nil
		},
	}

	root.AddCommand(run, benchCmd, reset)
	return root
}
