package sqlnosqlbench

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONNECTIONSTRING", "postgres://bench@localhost/bench")

	tests := []struct {
		args []string
		want Command
	}{
		{[]string{"run"}, RunCommand{}},
		{[]string{"bench"}, BenchCommand{}},
		{[]string{"bench", "--no-save"}, BenchCommand{NoSave: true}},
		{[]string{"reset"}, ResetCommand{}},
	}
	for _, tt := range tests {
		cmd, cfg, err := Parse(tt.args)
		require.NoError(t, err, tt.args)
		require.NotNil(t, cfg)
		assert.Equal(t, tt.want, cmd, tt.args)
		assert.Equal(t, tt.args[0], cmd.Name())
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCH_GRAPHS", "10")

	// Without --targets the default document target would need CONNECTIONSTRING.
	_, _, err := Parse([]string{"run"})
	require.ErrorIs(t, err, ErrMissingConnectionString)

	t.Setenv("RELATIONAL_CONNECTIONSTRING", "sqlite:bench.db")
	cmd, cfg, err := Parse([]string{
		"bench",
		"--targets", "relational",
		"--graphs", "20",
		"--seed", "7",
		"--min-trials", "3",
		"--max-duration", "1m",
		"--session", "fixed",
	})
	require.NoError(t, err)
	assert.Equal(t, BenchCommand{}, cmd)
	assert.Equal(t, []string{"relational"}, cfg.Targets)
	assert.Equal(t, 20, cfg.Bench.Graphs)
	assert.Equal(t, uint64(7), cfg.Bench.Seed)
	assert.Equal(t, 3, cfg.Harness.MinTrials)
	assert.Equal(t, time.Minute, cfg.Harness.MaxDuration)
	assert.Equal(t, "fixed", cfg.Harness.SessionID)
}

func TestParseErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONNECTIONSTRING", "postgres://bench@localhost/bench")

	_, _, err := Parse([]string{"explode"})
	require.Error(t, err)

	_, _, err = Parse([]string{"run", "extra"})
	require.Error(t, err)

	_, _, err = Parse([]string{"run", "--targets", "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestParseHelp(t *testing.T) {
	clearEnv(t)

	cfg, err := readConfig()
	require.NoError(t, err)
	var out bytes.Buffer
	cfg.Out = &out

	var selected Command
	root := newRootCommand(cfg, &selected)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.Nil(t, selected)
	assert.Contains(t, out.String(), "bench")
	assert.Contains(t, out.String(), "reset")
}
