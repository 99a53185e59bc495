// Package sqlnosqlbench is the application layer of the sqlnosqlbench
// command: configuration from the environment and flags, the wiring of the
// stores into benchmark targets, and the run, bench and reset commands.
package sqlnosqlbench
