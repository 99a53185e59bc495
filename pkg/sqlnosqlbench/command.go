package sqlnosqlbench

// Command represents one application operation with its own options.
//
// Commands are produced by [Parse] and dispatched by [Main] to the matching
// method on [App]. Each implementation carries only what differs from the
// environment configuration in [Config].
//
// Current command implementations:
//   - [RunCommand]: one pass of every operation against every target
//   - [BenchCommand]: repeated trials until the timings converge
//   - [ResetCommand]: recreate schemas and seed reference data only
type Command interface {
	// Name returns the sub-command name the command was parsed from.
	Name() string
}

// RunCommand runs every operation once against each target and prints one
// line per measurement.
//
// It is the quick check that a target is wired correctly, not a benchmark:
// a single sample says nothing about variance. Each target is reset and
// seeded before its operations run.
//
// Example usage:
//
//	sqlnosqlbench run
//	sqlnosqlbench run --targets relational --graphs 100
type RunCommand struct{}

func (RunCommand) Name() string { return "run" }

// BenchCommand runs the statistical harness.
//
// Every operation of every target is repeated until the coefficient of
// variation of its timings falls under the configured threshold, the trial
// cap is reached, or the time budget for the operation is spent. The report
// is rendered as a table and saved as CSV under the result directory.
//
// A target that fails to set up, or fails mid-run, is reported as aborted
// and the remaining targets still run. The command fails only when every
// target aborted.
//
// Example usage:
//
//	sqlnosqlbench bench
//	sqlnosqlbench bench --min-trials 10 --cv 0.02 --result-dir results
type BenchCommand struct {
	// NoSave skips writing the CSV result file.
	NoSave bool
}

func (BenchCommand) Name() string { return "bench" }

// ResetCommand drops and recreates the schema of each target and seeds its
// reference data, without running any operation.
//
// Example usage:
//
//	sqlnosqlbench reset --targets document,surrealdb
type ResetCommand struct{}

func (ResetCommand) Name() string { return "reset" }
